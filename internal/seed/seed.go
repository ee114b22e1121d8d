// Package seed loads demo content for offline/dev mode so the API is usable
// immediately after first boot.
package seed

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/comrade-prep/comrade-backend/internal/auth"
	"github.com/comrade-prep/comrade-backend/internal/news"
	"github.com/comrade-prep/comrade-backend/internal/quiz"
)

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

// Demo loads a daily quiz, a question bank, a day of news and a demo admin
// account. All writes are upserts, so running it on every boot is safe.
func Demo(ctx context.Context, content quiz.ContentStore, newsStore news.Store, users auth.UserStore) error {
	now := time.Now().UTC()

	questions := []quiz.Question{
		{
			ID:          "q1",
			Text:        "Which is India's highest wartime gallantry award?",
			Type:        quiz.TypeMultipleChoice,
			Difficulty:  quiz.DifficultyEasy,
			Explanation: "The Param Vir Chakra is awarded for the highest degree of valour in the presence of the enemy.",
			Tags:        []string{"awards", "army"},
			Points:      2,
			Options:     []string{"Ashoka Chakra", "Param Vir Chakra", "Vir Chakra", "Shaurya Chakra"},
			Key:         quiz.AnswerKey{CorrectIndex: intp(1)},
			CreatedAt:   now,
		},
		{
			ID:          "q2",
			Text:        "The Agni-V is an intercontinental ballistic missile.",
			Type:        quiz.TypeTrueFalse,
			Difficulty:  quiz.DifficultyMedium,
			Explanation: "Agni-V has a range of over 5,000 km, placing it in the ICBM class.",
			Tags:        []string{"missiles", "drdo"},
			Points:      1,
			Key:         quiz.AnswerKey{CorrectBool: boolp(true)},
			CreatedAt:   now,
		},
		{
			ID:          "q3",
			Text:        "Name the de facto border between India and China.",
			Type:        quiz.TypeFillInBlank,
			Difficulty:  quiz.DifficultyMedium,
			Explanation: "The Line of Actual Control separates Indian-controlled and Chinese-controlled territory.",
			Tags:        []string{"geography", "borders"},
			Points:      2,
			Key:         quiz.AnswerKey{Accepted: []string{"Line of Actual Control", "LAC"}},
			CreatedAt:   now,
		},
		{
			ID:          "q4",
			Text:        "Which service operates the MiG-29K?",
			Type:        quiz.TypeMultipleChoice,
			Difficulty:  quiz.DifficultyHard,
			Explanation: "The MiG-29K is the carrier-based fighter of the Indian Navy.",
			Tags:        []string{"navy", "aviation"},
			Points:      3,
			Options:     []string{"Indian Air Force", "Indian Navy", "Indian Army"},
			Key:         quiz.AnswerKey{CorrectIndex: intp(1)},
			CreatedAt:   now,
		},
	}
	for _, q := range questions {
		if err := content.PutQuestion(ctx, q); err != nil {
			return err
		}
	}

	if err := content.PutQuiz(ctx, quiz.Quiz{
		ID:           "daily_quiz_1",
		Title:        "Daily Defense Current Affairs Quiz",
		Description:  "Today's quiz on defense and current affairs.",
		TimeLimitMin: intp(15),
		PassingScore: 70,
		IsDaily:      true,
		IsActive:     true,
		Tags:         []string{"daily", "defense"},
		QuestionIDs:  []string{"q1", "q2", "q3", "q4"},
		CreatedBy:    "admin",
		CreatedAt:    now,
	}); err != nil {
		return err
	}

	items := []news.Item{
		{
			ID:          "news_1",
			Title:       "Joint military exercise concludes along eastern border",
			Description: "The two-week exercise tested high-altitude logistics and joint command structures.",
			Content:     "The exercise involved infantry, artillery and air assets operating above 14,000 feet...",
			SourceURL:   "https://pib.gov.in/release/news_1",
			Source:      news.SourcePIB,
			Category:    news.CategoryDefense,
			Tags:        []string{"army", "exercise"},
			ReadTimeMin: 4,
			PublishedAt: now.Add(-1 * time.Hour),
			CreatedAt:   now,
			IsFeatured:  true,
			ViewCount:   120,
		},
		{
			ID:          "news_2",
			Title:       "Navy commissions indigenous frigate",
			Description: "The latest stealth frigate joins the western fleet.",
			Content:     "Built under Project 17A, the frigate carries indigenous sensors and weapons...",
			SourceURL:   "https://example.com/news_2",
			Source:      news.SourceHindu,
			Category:    news.CategoryDefense,
			Tags:        []string{"navy", "shipbuilding"},
			ReadTimeMin: 3,
			PublishedAt: now.Add(-3 * time.Hour),
			CreatedAt:   now,
			ViewCount:   85,
		},
		{
			ID:          "news_3",
			Title:       "Parliament passes defense procurement amendment",
			Description: "The amendment eases sourcing rules for emergency acquisitions.",
			Content:     "The bill cleared both houses after a short debate...",
			SourceURL:   "https://example.com/news_3",
			Source:      news.SourceIndianExpress,
			Category:    news.CategoryPolitics,
			Tags:        []string{"parliament", "procurement"},
			ReadTimeMin: 5,
			PublishedAt: now.Add(-5 * time.Hour),
			CreatedAt:   now,
			ViewCount:   40,
		},
		{
			ID:          "news_4",
			Title:       "Rupee steadies as trade deficit narrows",
			Description: "Export growth in engineering goods offset higher oil imports.",
			Content:     "The monthly trade data showed a narrowing deficit...",
			SourceURL:   "https://example.com/news_4",
			Source:      news.SourceEconomicTimes,
			Category:    news.CategoryEconomy,
			Tags:        []string{"economy", "trade"},
			ReadTimeMin: 3,
			PublishedAt: now.Add(-7 * time.Hour),
			CreatedAt:   now,
			ViewCount:   22,
		},
	}
	for _, n := range items {
		if err := newsStore.Put(ctx, n); err != nil {
			return err
		}
	}

	if _, err := users.GetByEmail(ctx, "admin@example.com"); err != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if err := users.Create(ctx, auth.User{
			ID:           "admin",
			Name:         "Demo Admin",
			Email:        "admin@example.com",
			Role:         auth.RoleAdmin,
			CreatedAt:    now,
			PasswordHash: string(hash),
		}); err != nil {
			return err
		}
		log.Printf("seeded demo admin account admin@example.com")
	}

	return nil
}
