package tenant

import (
	"github.com/dianpu-dev/roster-console/backend/internal/domain"
)

// Context 表示一次请求最终作用于哪个商家
// BusinessID 只有在超级管理员没有选择任何商家时（全局视图）才允许为 nil
type Context struct {
	BusinessID *int64      `json:"businessID"`
	Role       domain.Role `json:"role"`
}

// Outcome 标记本次解析命中了决策表中的哪一条规则，方便审计和测试
type Outcome string

const (
	OutcomeURLHintMembership    Outcome = "url_hint_membership"
	OutcomeURLHintSuperAdmin    Outcome = "url_hint_super_admin"
	OutcomeStoredHintMembership Outcome = "stored_hint_membership"
	OutcomeStoredHintSuperAdmin Outcome = "stored_hint_super_admin"
	OutcomeFirstMembership      Outcome = "first_membership"
	OutcomeGlobalView           Outcome = "global_view"
)

// Resolution 是一次解析的完整结果
// Persist 为 true 时，调用方必须把解析出的商家 ID 保存为新的记忆选择
// 只有全局视图不做持久化（没有选择就没有什么可记忆的）
type Resolution struct {
	Context Context `json:"context"`
	Outcome Outcome `json:"outcome"`
	Persist bool    `json:"-"`
}

func findMembership(memberships []domain.BusinessMembership, businessID int64) *domain.BusinessMembership {
	for i := range memberships {
		if memberships[i].BusinessID == businessID {
			return &memberships[i]
		}
	}
	return nil
}

// Resolve 按固定优先级决定当前用户操作的商家，每次调用都重新计算，不与旧结果合并
//
// 决策表（自上而下，命中即返回）：
//
//	1. 请求中指定了商家，且用户是该商家成员     -> 该商家，角色取成员关系
//	2. 请求中指定了商家，用户是超级管理员       -> 该商家，角色为超级管理员
//	3. 请求中指定了商家，以上都不满足           -> ErrUnauthorizedBusiness
//	4. 有记忆的商家选择，且用户是该商家成员     -> 该商家，角色取成员关系
//	5. 有记忆的商家选择，用户是超级管理员       -> 该商家，角色为超级管理员
//	6. 非超级管理员且至少加入了一个商家         -> 第一个商家（按加入时间）
//	7. 用户是超级管理员                         -> 全局视图（商家为空）
//	8. 其余情况                                 -> ErrNoBusinessAvailable
//
// memberships 必须已按加入时间排序，第 6 条规则依赖这个顺序保持稳定
func Resolve(urlHint *int64, storedHint *int64, memberships []domain.BusinessMembership, isSuperAdmin bool) (*Resolution, error) {
	if urlHint != nil {
		if m := findMembership(memberships, *urlHint); m != nil {
			return &Resolution{
				Context: Context{BusinessID: urlHint, Role: m.Role},
				Outcome: OutcomeURLHintMembership,
				Persist: true,
			}, nil
		}
		if isSuperAdmin {
			return &Resolution{
				Context: Context{BusinessID: urlHint, Role: domain.RoleSuperAdmin},
				Outcome: OutcomeURLHintSuperAdmin,
				Persist: true,
			}, nil
		}
		return nil, domain.ErrUnauthorizedBusiness
	}

	if storedHint != nil {
		if m := findMembership(memberships, *storedHint); m != nil {
			return &Resolution{
				Context: Context{BusinessID: storedHint, Role: m.Role},
				Outcome: OutcomeStoredHintMembership,
				Persist: true,
			}, nil
		}
		if isSuperAdmin {
			return &Resolution{
				Context: Context{BusinessID: storedHint, Role: domain.RoleSuperAdmin},
				Outcome: OutcomeStoredHintSuperAdmin,
				Persist: true,
			}, nil
		}
		// 记忆的选择已失效（例如成员关系被移除），继续走默认规则
	}

	if !isSuperAdmin && len(memberships) > 0 {
		first := memberships[0]
		return &Resolution{
			Context: Context{BusinessID: &first.BusinessID, Role: first.Role},
			Outcome: OutcomeFirstMembership,
			Persist: true,
		}, nil
	}

	if isSuperAdmin {
		return &Resolution{
			Context: Context{BusinessID: nil, Role: domain.RoleSuperAdmin},
			Outcome: OutcomeGlobalView,
			Persist: false,
		}, nil
	}

	return nil, domain.ErrNoBusinessAvailable
}
