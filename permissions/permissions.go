// Package permissions defines the capability-code namespace and the checks
// used by the authorization layer. The codes form a hierarchical tree that is
// flattened once at startup into the set of all grantable codes.
package permissions

// Admin is the wildcard: a permission set containing it authorizes every
// action. Basic is the minimal default grant.
const (
	Admin     = "ADMIN.GRANTED"
	Basic     = "BASIC.PUBLIC"
	Dashboard = "DASHBOARD"
)

// System administration codes.
const (
	UserView   = "SYSTEM.USER.VIEW"
	UserCreate = "SYSTEM.USER.CREATE"
	UserUpdate = "SYSTEM.USER.UPDATE"
	UserDelete = "SYSTEM.USER.DELETE"

	RoleView   = "SYSTEM.ROLE.VIEW"
	RoleCreate = "SYSTEM.ROLE.CREATE"
	RoleUpdate = "SYSTEM.ROLE.UPDATE"
	RoleDelete = "SYSTEM.ROLE.DELETE"
)

// Catalog management codes.
const (
	ProductView   = "MANAGE_PRODUCT.PRODUCT.VIEW"
	ProductCreate = "MANAGE_PRODUCT.PRODUCT.CREATE"
	ProductUpdate = "MANAGE_PRODUCT.PRODUCT.UPDATE"
	ProductDelete = "MANAGE_PRODUCT.PRODUCT.DELETE"

	ProductTypeCreate = "MANAGE_PRODUCT.PRODUCT_TYPE.CREATE"
	ProductTypeUpdate = "MANAGE_PRODUCT.PRODUCT_TYPE.UPDATE"
	ProductTypeDelete = "MANAGE_PRODUCT.PRODUCT_TYPE.DELETE"

	CommentUpdate = "MANAGE_PRODUCT.COMMENT.UPDATE"
	CommentDelete = "MANAGE_PRODUCT.COMMENT.DELETE"
)

// Order management codes.
const (
	OrderView   = "MANAGE_ORDER.ORDER.VIEW"
	OrderUpdate = "MANAGE_ORDER.ORDER.UPDATE"
	OrderDelete = "MANAGE_ORDER.ORDER.DELETE"

	ReviewUpdate = "MANAGE_ORDER.REVIEW.UPDATE"
	ReviewDelete = "MANAGE_ORDER.REVIEW.DELETE"
)

// Reference-data codes.
const (
	PaymentTypeCreate = "SETTING.PAYMENT_TYPE.CREATE"
	PaymentTypeUpdate = "SETTING.PAYMENT_TYPE.UPDATE"
	PaymentTypeDelete = "SETTING.PAYMENT_TYPE.DELETE"

	DeliveryTypeCreate = "SETTING.DELIVERY_TYPE.CREATE"
	DeliveryTypeUpdate = "SETTING.DELIVERY_TYPE.UPDATE"
	DeliveryTypeDelete = "SETTING.DELIVERY_TYPE.DELETE"

	CityCreate = "CITY.CREATE"
	CityUpdate = "CITY.UPDATE"
	CityDelete = "CITY.DELETE"
)

type node map[string]any

// tree mirrors the declarative permission configuration. Leaves are codes,
// inner nodes group them by concern.
var tree = node{
	"ADMIN":     Admin,
	"BASIC":     Basic,
	"DASHBOARD": Dashboard,
	"SYSTEM": node{
		"USER": node{"VIEW": UserView, "CREATE": UserCreate, "UPDATE": UserUpdate, "DELETE": UserDelete},
		"ROLE": node{"VIEW": RoleView, "CREATE": RoleCreate, "UPDATE": RoleUpdate, "DELETE": RoleDelete},
	},
	"MANAGE_PRODUCT": node{
		"PRODUCT":      node{"VIEW": ProductView, "CREATE": ProductCreate, "UPDATE": ProductUpdate, "DELETE": ProductDelete},
		"PRODUCT_TYPE": node{"CREATE": ProductTypeCreate, "UPDATE": ProductTypeUpdate, "DELETE": ProductTypeDelete},
		"COMMENT":      node{"UPDATE": CommentUpdate, "DELETE": CommentDelete},
	},
	"MANAGE_ORDER": node{
		"ORDER":  node{"VIEW": OrderView, "UPDATE": OrderUpdate, "DELETE": OrderDelete},
		"REVIEW": node{"UPDATE": ReviewUpdate, "DELETE": ReviewDelete},
	},
	"SETTING": node{
		"PAYMENT_TYPE":  node{"CREATE": PaymentTypeCreate, "UPDATE": PaymentTypeUpdate, "DELETE": PaymentTypeDelete},
		"DELIVERY_TYPE": node{"CREATE": DeliveryTypeCreate, "UPDATE": DeliveryTypeUpdate, "DELETE": DeliveryTypeDelete},
	},
	"CITY": node{"CREATE": CityCreate, "UPDATE": CityUpdate, "DELETE": CityDelete},
}

// allCodes is the flattened code space, computed once.
var allCodes = flatten(tree)

func flatten(n node) map[string]struct{} {
	out := make(map[string]struct{})
	var walk func(node)
	walk = func(n node) {
		for _, v := range n {
			switch t := v.(type) {
			case string:
				out[t] = struct{}{}
			case node:
				walk(t)
			}
		}
	}
	walk(n)
	return out
}

// All returns every known permission code.
func All() []string {
	codes := make([]string, 0, len(allCodes))
	for code := range allCodes {
		codes = append(codes, code)
	}
	return codes
}

// Known reports whether code exists in the permission code space.
func Known(code string) bool {
	_, ok := allCodes[code]
	return ok
}

// Valid reports whether every code in perms is a known permission code. It is
// used to validate permission sets before assigning them to a role.
func Valid(perms []string) bool {
	for _, p := range perms {
		if !Known(p) {
			return false
		}
	}
	return true
}

// Has reports whether perms contains the required code.
func Has(perms []string, required string) bool {
	for _, p := range perms {
		if p == required {
			return true
		}
	}
	return false
}

// IsAdmin reports whether perms carries the wildcard grant.
func IsAdmin(perms []string) bool {
	return Has(perms, Admin)
}
