package pkg

import "fmt"

// Role 角色枚举，和 model.User.Role 的整型值保持一致
type Role int

const (
	RoleMember Role = iota
	RoleLibrarian
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleMember:
		return "member"
	case RoleLibrarian:
		return "librarian"
	case RoleAdmin:
		return "admin"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Decision 显式的授权判定结果
type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision { return Decision{Allowed: true} }

func Deny(reason string) Decision { return Decision{Allowed: false, Reason: reason} }

// RequireRole 角色门槛判定
func RequireRole(actor Role, min Role) Decision {
	if actor >= min {
		return Allow()
	}
	return Deny(fmt.Sprintf("requires %s role", min))
}

// OwnerOrRole 资源归属判定：本人或达到角色门槛均可
func OwnerOrRole(actorID, ownerID uint64, actor Role, min Role) Decision {
	if actorID == ownerID {
		return Allow()
	}
	if actor >= min {
		return Allow()
	}
	return Deny("not the owner")
}

// Forbidden 把拒绝结果转成统一错误
func (d Decision) Forbidden() *AppError {
	return NewError(KindForbidden, d.Reason)
}
