package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"user": {
		"quiz:view",
		"quiz:submit",
		"attempt:view-own",
		"news:view",
		"news:bookmark",
	},
	"admin": {
		"*", // everything
	},
}
