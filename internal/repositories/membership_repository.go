package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/models"
)

// MembershipWithOrg is the join row behind GET /api/v1/auth/organisations/.
type MembershipWithOrg struct {
	Org       models.Organisation `json:"organisation"`
	Role      models.RoleType     `json:"role"`
	IsDefault bool                `json:"is_default"`
}

type MembershipRepository interface {
	AddMember(ctx context.Context, m *models.UserOrganisation) error
	IsMember(ctx context.Context, userID, orgID uuid.UUID) (bool, error)
	GetRole(ctx context.Context, userID, orgID uuid.UUID) (models.RoleType, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*MembershipWithOrg, error)
}

type membershipRepo struct {
	db DB
}

func NewMembershipRepository(db DB) MembershipRepository {
	return &membershipRepo{db: db}
}

func (r *membershipRepo) AddMember(ctx context.Context, m *models.UserOrganisation) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO user_organisations (
            user_id, org_id, role, is_default, accepted_at
        ) VALUES (
            $1, $2, $3, $4, $5
        )
    `,
		m.UserID, m.OrgID, m.Role, m.IsDefault, m.AcceptedAt,
	)
	return err
}

func (r *membershipRepo) IsMember(ctx context.Context, userID, orgID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM user_organisations
            WHERE user_id=$1 AND org_id=$2 AND accepted_at IS NOT NULL
        )
    `, userID, orgID).Scan(&exists)
	return exists, err
}

func (r *membershipRepo) GetRole(ctx context.Context, userID, orgID uuid.UUID) (models.RoleType, error) {
	var role models.RoleType
	err := r.db.QueryRow(ctx, `
        SELECT role FROM user_organisations
        WHERE user_id=$1 AND org_id=$2 AND accepted_at IS NOT NULL
    `, userID, orgID).Scan(&role)
	return role, err
}

func (r *membershipRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*MembershipWithOrg, error) {
	rows, err := r.db.Query(ctx, `
        SELECT o.id, o.name, o.uen, o.gst_registered, o.gst_reg_no,
               o.base_currency, o.created_at, o.updated_at,
               uo.role, uo.is_default
        FROM user_organisations uo
        JOIN organisations o ON o.id = uo.org_id
        WHERE uo.user_id=$1 AND uo.accepted_at IS NOT NULL
        ORDER BY uo.is_default DESC, o.name
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*MembershipWithOrg
	for rows.Next() {
		var m MembershipWithOrg
		if err := rows.Scan(
			&m.Org.ID, &m.Org.Name, &m.Org.UEN, &m.Org.GSTRegistered, &m.Org.GSTRegNo,
			&m.Org.BaseCurrency, &m.Org.CreatedAt, &m.Org.UpdatedAt,
			&m.Role, &m.IsDefault,
		); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
