package tenant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dianpu-dev/roster-console/backend/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func memberships() []domain.BusinessMembership {
	return []domain.BusinessMembership{
		{ID: 1, UserID: 10, BusinessID: 100, Role: domain.RoleBusinessAdmin, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, UserID: 10, BusinessID: 200, Role: domain.RoleBusinessStaff, CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func TestResolveDecisionTable(t *testing.T) {
	tests := []struct {
		name         string
		urlHint      *int64
		storedHint   *int64
		memberships  []domain.BusinessMembership
		isSuperAdmin bool

		wantErr        error
		wantBusinessID *int64
		wantRole       domain.Role
		wantOutcome    Outcome
		wantPersist    bool
	}{
		{
			name:           "url hint matching a membership wins over everything",
			urlHint:        ptr(int64(200)),
			storedHint:     ptr(int64(100)),
			memberships:    memberships(),
			wantBusinessID: ptr(int64(200)),
			wantRole:       domain.RoleBusinessStaff,
			wantOutcome:    OutcomeURLHintMembership,
			wantPersist:    true,
		},
		{
			name:           "url hint without membership as super admin addresses any business",
			urlHint:        ptr(int64(999)),
			memberships:    memberships(),
			isSuperAdmin:   true,
			wantBusinessID: ptr(int64(999)),
			wantRole:       domain.RoleSuperAdmin,
			wantOutcome:    OutcomeURLHintSuperAdmin,
			wantPersist:    true,
		},
		{
			name:        "url hint without membership as regular user is rejected",
			urlHint:     ptr(int64(999)),
			memberships: memberships(),
			wantErr:     domain.ErrUnauthorizedBusiness,
		},
		{
			name:           "stored hint matching a membership",
			storedHint:     ptr(int64(200)),
			memberships:    memberships(),
			wantBusinessID: ptr(int64(200)),
			wantRole:       domain.RoleBusinessStaff,
			wantOutcome:    OutcomeStoredHintMembership,
			wantPersist:    true,
		},
		{
			name:           "stored hint without membership as super admin",
			storedHint:     ptr(int64(999)),
			isSuperAdmin:   true,
			wantBusinessID: ptr(int64(999)),
			wantRole:       domain.RoleSuperAdmin,
			wantOutcome:    OutcomeStoredHintSuperAdmin,
			wantPersist:    true,
		},
		{
			name:           "stale stored hint of a regular user falls back to first membership",
			storedHint:     ptr(int64(999)),
			memberships:    memberships(),
			wantBusinessID: ptr(int64(100)),
			wantRole:       domain.RoleBusinessAdmin,
			wantOutcome:    OutcomeFirstMembership,
			wantPersist:    true,
		},
		{
			name:           "no hints resolves to the first membership in join order",
			memberships:    memberships(),
			wantBusinessID: ptr(int64(100)),
			wantRole:       domain.RoleBusinessAdmin,
			wantOutcome:    OutcomeFirstMembership,
			wantPersist:    true,
		},
		{
			name:           "super admin without hints gets the global view",
			isSuperAdmin:   true,
			wantBusinessID: nil,
			wantRole:       domain.RoleSuperAdmin,
			wantOutcome:    OutcomeGlobalView,
			wantPersist:    false,
		},
		{
			name:           "super admin with memberships but no hints still gets the global view",
			memberships:    memberships(),
			isSuperAdmin:   true,
			wantBusinessID: nil,
			wantRole:       domain.RoleSuperAdmin,
			wantOutcome:    OutcomeGlobalView,
			wantPersist:    false,
		},
		{
			name:    "regular user with no memberships is rejected",
			wantErr: domain.ErrNoBusinessAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(tt.urlHint, tt.storedHint, tt.memberships, tt.isSuperAdmin)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantOutcome, res.Outcome)
			require.Equal(t, tt.wantPersist, res.Persist)
			require.Equal(t, tt.wantRole, res.Context.Role)
			if tt.wantBusinessID == nil {
				require.Nil(t, res.Context.BusinessID)
			} else {
				require.NotNil(t, res.Context.BusinessID)
				require.Equal(t, *tt.wantBusinessID, *res.Context.BusinessID)
			}
		})
	}
}

func TestResolveRecomputesInsteadOfMerging(t *testing.T) {
	// 同样的输入反复解析必须得到同样的结果，解析不依赖任何历史状态
	for i := 0; i < 3; i++ {
		res, err := Resolve(nil, nil, memberships(), false)
		require.NoError(t, err)
		require.Equal(t, int64(100), *res.Context.BusinessID)
	}
}
