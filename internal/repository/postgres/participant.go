package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/swimschool/billing/internal/domain"
)

// ParticipantRepository хранит участников
type ParticipantRepository struct {
	db DBTX
}

// NewParticipantRepository создает новый ParticipantRepository
func NewParticipantRepository(db DBTX) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

const participantColumns = `id, national_id, first_name, last_name, phone, created_at`

func scanParticipant(row pgx.Row) (*domain.Participant, error) {
	p := &domain.Participant{}
	err := row.Scan(&p.ID, &p.NationalID, &p.FirstName, &p.LastName, &p.Phone, &p.CreatedAt)
	return p, err
}

// CreateParticipant создает участника; номер удостоверения уникален
func (r *ParticipantRepository) CreateParticipant(ctx context.Context, p *domain.Participant) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO participants (national_id, first_name, last_name, phone)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		p.NationalID, p.FirstName, p.LastName, p.Phone,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrParticipantExists
		}
		return fmt.Errorf("repository: failed to create participant %q: %w", p.NationalID, err)
	}

	return nil
}

// GetParticipant получает участника по ID
func (r *ParticipantRepository) GetParticipant(ctx context.Context, id int64) (*domain.Participant, error) {
	p, err := scanParticipant(r.db.QueryRow(ctx,
		`SELECT `+participantColumns+`
		 FROM participants
		 WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrParticipantNotFound
		}
		return nil, fmt.Errorf("repository: failed to get participant %d: %w", id, err)
	}

	return p, nil
}

// GetParticipantsByIDs загружает участников одним запросом
func (r *ParticipantRepository) GetParticipantsByIDs(ctx context.Context, ids []int64) (map[int64]domain.Participant, error) {
	result := make(map[int64]domain.Participant, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+participantColumns+`
		 FROM participants
		 WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan participant: %w", err)
		}
		result[p.ID] = *p
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating participants: %w", err)
	}

	return result, nil
}
