package repository

import (
	"context"
	"database/sql"
	"time"

	"pp_quest/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// Blob keys. They match the keys the browser client stored its state under.
const (
	ProfileKey = "pp_quest_v6_profile"
	QuestsKey  = "pp_quest_v6_daily"
)

const blobTable = "kv_blobs"

type blob struct {
	Key       string    `db:"blob_key"`
	Value     string    `db:"blob_value"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *Repository) InitSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS kv_blobs (
			blob_key TEXT PRIMARY KEY,
			blob_value TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`
	_, err := r.db.ExecContext(ctx, query)
	return errors.Wrap(err, "failed to create kv_blobs table")
}

func (r *Repository) getBlob(ctx context.Context, key string) ([]byte, error) {
	query, args, err := squirrel.
		Select("blob_value").
		From(blobTable).
		Where(squirrel.Eq{"blob_key": key}).
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return nil, err
	}

	var value string
	err = r.db.GetContext(ctx, &value, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "failed to read blob %s", key)
	}

	return []byte(value), nil
}

func (r *Repository) putBlob(ctx context.Context, tx *sqlx.Tx, b blob) error {
	query, args, err := squirrel.
		Insert(blobTable).
		Columns("blob_key", "blob_value", "updated_at").
		Values(b.Key, b.Value, b.UpdatedAt).
		Suffix("ON CONFLICT (blob_key) DO UPDATE SET blob_value = EXCLUDED.blob_value, updated_at = EXCLUDED.updated_at").
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, query, args...)
	return errors.Wrapf(err, "failed to write blob %s", b.Key)
}

func (r *Repository) LoadProfile(ctx context.Context) (*model.UserProfile, error) {
	raw, err := r.getBlob(ctx, ProfileKey)
	if err != nil {
		return nil, err
	}
	return decodeProfile(raw)
}

func (r *Repository) LoadQuests(ctx context.Context) ([]model.Quest, error) {
	raw, err := r.getBlob(ctx, QuestsKey)
	if err != nil {
		return nil, err
	}
	return decodeQuests(raw)
}

// SaveState writes both blobs in one transaction.
func (r *Repository) SaveState(ctx context.Context, profile *model.UserProfile, quests []model.Quest) error {
	blobs, err := encodeState(profile, quests, time.Now().UTC())
	if err != nil {
		return err
	}

	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		for _, b := range blobs {
			if err := r.putBlob(ctx, tx, b); err != nil {
				return err
			}
		}
		return nil
	})
}

func encodeState(profile *model.UserProfile, quests []model.Quest, now time.Time) ([]blob, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}
	if quests == nil {
		quests = []model.Quest{}
	}

	p, err := json.Marshal(profile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode profile")
	}
	q, err := json.Marshal(quests)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode quests")
	}

	return []blob{
		{Key: ProfileKey, Value: string(p), UpdatedAt: now},
		{Key: QuestsKey, Value: string(q), UpdatedAt: now},
	}, nil
}

func decodeProfile(raw []byte) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, errors.Wrapf(ErrMalformedBlob, "profile: %v", err)
	}
	if profile.History == nil {
		profile.History = []model.Quest{}
	}
	return &profile, nil
}

func decodeQuests(raw []byte) ([]model.Quest, error) {
	var quests []model.Quest
	if err := json.Unmarshal(raw, &quests); err != nil {
		return nil, errors.Wrapf(ErrMalformedBlob, "quests: %v", err)
	}
	for _, q := range quests {
		if !q.Difficulty.Valid() || !q.Type.Valid() {
			return nil, errors.Wrapf(ErrMalformedBlob, "quest %s: difficulty %q type %q", q.ID, q.Difficulty, q.Type)
		}
	}
	if quests == nil {
		quests = []model.Quest{}
	}
	return quests, nil
}
