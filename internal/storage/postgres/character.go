package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fdumontet/ringside/internal/game/character"
	"github.com/fdumontet/ringside/internal/game/skill"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterNameTaken is returned when creating a character with a name
// the owner already uses.
var ErrCharacterNameTaken = errors.New("character name already taken")

// CharacterRepository provides character persistence operations. Skills are
// stored in a child table and rewritten wholesale on update, preserving
// their order.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

const characterColumns = `id, owner_id, name, hp, max_hp, power_gauge, talent, level, experience, created_at, updated_at`

// scanCharacter reads one character row. The talent label is parsed back
// into its enum value.
func scanCharacter(row pgx.Row) (*character.Character, error) {
	var c character.Character
	var talent string
	if err := row.Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.HP, &c.MaxHP, &c.PowerGauge,
		&talent, &c.Level, &c.Experience, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t, err := character.ParseTalent(talent)
	if err != nil {
		return nil, fmt.Errorf("stored talent: %w", err)
	}
	c.Talent = t
	return &c, nil
}

// Create inserts a new character and its skills, returning the character
// with ID and timestamps set.
//
// Precondition: c.Name must be non-empty; c.OwnerID must identify a player.
// Postcondition: Returns the created character, or ErrCharacterNameTaken
// when the (name, owner) pair already exists.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	out, err := scanCharacter(tx.QueryRow(ctx, `
		INSERT INTO characters
			(owner_id, name, hp, max_hp, power_gauge, talent, level, experience)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING `+characterColumns,
		c.OwnerID, c.Name, c.HP, c.MaxHP, c.PowerGauge, c.Talent.String(), c.Level, c.Experience,
	))
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrCharacterNameTaken
		}
		return nil, fmt.Errorf("inserting character: %w", err)
	}

	if err := insertSkills(ctx, tx, out.ID, c.Skills); err != nil {
		return nil, err
	}
	out.Skills = c.Skills

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing character insert: %w", err)
	}
	return out, nil
}

// GetByNameAndOwner retrieves a character by (name, owner) with its skills.
//
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByNameAndOwner(ctx context.Context, name string, ownerID int64) (*character.Character, error) {
	c, err := scanCharacter(r.db.QueryRow(ctx, `
		SELECT `+characterColumns+`
		FROM characters WHERE name = $1 AND owner_id = $2`,
		name, ownerID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	if c.Skills, err = r.loadSkills(ctx, c.ID); err != nil {
		return nil, err
	}
	return c, nil
}

// GetByNameAnyOwner retrieves a character by name regardless of owner,
// used for public inspection. When several owners share the name the
// oldest character wins.
//
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByNameAnyOwner(ctx context.Context, name string) (*character.Character, error) {
	c, err := scanCharacter(r.db.QueryRow(ctx, `
		SELECT `+characterColumns+`
		FROM characters WHERE name = $1 ORDER BY created_at ASC LIMIT 1`,
		name,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	if c.Skills, err = r.loadSkills(ctx, c.ID); err != nil {
		return nil, err
	}
	return c, nil
}

// ListByOwner returns all of a player's characters with their skills,
// ordered by creation time.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*character.Character, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+characterColumns+`
		FROM characters WHERE owner_id = $1 ORDER BY created_at ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	chars := make([]*character.Character, 0)
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		chars = append(chars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, c := range chars {
		if c.Skills, err = r.loadSkills(ctx, c.ID); err != nil {
			return nil, err
		}
	}
	return chars, nil
}

// Update persists a character's mutable fields and rewrites its skill
// list in one transaction.
//
// Precondition: c.ID must be set.
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row
// was updated.
func (r *CharacterRepository) Update(ctx context.Context, c *character.Character) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE characters
		SET hp = $2, max_hp = $3, power_gauge = $4, talent = $5,
		    level = $6, experience = $7, updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.HP, c.MaxHP, c.PowerGauge, c.Talent.String(), c.Level, c.Experience,
	)
	if err != nil {
		return fmt.Errorf("updating character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM skills WHERE character_id = $1`, c.ID); err != nil {
		return fmt.Errorf("clearing skills: %w", err)
	}
	if err := insertSkills(ctx, tx, c.ID, c.Skills); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing character update: %w", err)
	}
	return nil
}

// Delete removes a character by (name, owner). Skills go with it through
// the cascade.
//
// Postcondition: Returns nil on success, ErrCharacterNotFound if nothing
// was deleted.
func (r *CharacterRepository) Delete(ctx context.Context, name string, ownerID int64) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM characters WHERE name = $1 AND owner_id = $2`,
		name, ownerID,
	)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// TopByLevel returns up to limit characters ordered by level, then
// experience, both descending.
func (r *CharacterRepository) TopByLevel(ctx context.Context, limit int) ([]*character.Character, error) {
	return r.top(ctx, `ORDER BY level DESC, experience DESC`, limit)
}

// TopByExperience returns up to limit characters ordered by experience
// descending.
func (r *CharacterRepository) TopByExperience(ctx context.Context, limit int) ([]*character.Character, error) {
	return r.top(ctx, `ORDER BY experience DESC`, limit)
}

func (r *CharacterRepository) top(ctx context.Context, order string, limit int) ([]*character.Character, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+characterColumns+`
		FROM characters `+order+` LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}
	defer rows.Close()

	chars := make([]*character.Character, 0, limit)
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning leaderboard row: %w", err)
		}
		chars = append(chars, c)
	}
	return chars, rows.Err()
}

// GlobalStats summarizes the character population.
type GlobalStats struct {
	CharacterCount int
	OwnerCount     int
	AverageLevel   float64
	TalentCounts   map[character.Talent]int
}

// Stats returns population-wide aggregates: character count, distinct
// owners, average level, and the talent distribution.
func (r *CharacterRepository) Stats(ctx context.Context) (*GlobalStats, error) {
	stats := &GlobalStats{TalentCounts: make(map[character.Talent]int)}

	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT owner_id), COALESCE(AVG(level), 0)
		FROM characters`,
	).Scan(&stats.CharacterCount, &stats.OwnerCount, &stats.AverageLevel)
	if err != nil {
		return nil, fmt.Errorf("querying global stats: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT talent, COUNT(*) FROM characters GROUP BY talent`)
	if err != nil {
		return nil, fmt.Errorf("querying talent distribution: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, fmt.Errorf("scanning talent row: %w", err)
		}
		t, err := character.ParseTalent(label)
		if err != nil {
			return nil, fmt.Errorf("stored talent: %w", err)
		}
		stats.TalentCounts[t] = count
	}
	return stats, rows.Err()
}

// loadSkills returns a character's skills in stored order.
func (r *CharacterRepository) loadSkills(ctx context.Context, characterID int64) ([]*skill.Skill, error) {
	rows, err := r.db.Query(ctx, `
		SELECT name, effect, category, cooldown
		FROM skills WHERE character_id = $1 ORDER BY position ASC`,
		characterID,
	)
	if err != nil {
		return nil, fmt.Errorf("loading skills: %w", err)
	}
	defer rows.Close()

	skills := make([]*skill.Skill, 0)
	for rows.Next() {
		var s skill.Skill
		var category string
		if err := rows.Scan(&s.Name, &s.Effect, &category, &s.Cooldown); err != nil {
			return nil, fmt.Errorf("scanning skill row: %w", err)
		}
		cat, err := skill.ParseCategory(category)
		if err != nil {
			return nil, fmt.Errorf("stored category: %w", err)
		}
		s.Category = cat
		skills = append(skills, &s)
	}
	return skills, rows.Err()
}

// insertSkills writes a character's skill list, preserving order via the
// position column.
func insertSkills(ctx context.Context, tx pgx.Tx, characterID int64, skills []*skill.Skill) error {
	for i, s := range skills {
		if _, err := tx.Exec(ctx, `
			INSERT INTO skills (character_id, position, name, effect, category, cooldown)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			characterID, i, s.Name, s.Effect, s.Category.String(), s.Cooldown,
		); err != nil {
			return fmt.Errorf("inserting skill %q: %w", s.Name, err)
		}
	}
	return nil
}
