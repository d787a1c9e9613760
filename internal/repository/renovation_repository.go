package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/renotrack/renovation-tracker/internal/model"
)

const renovationColumns = "id, listing_id, bedroom, kitchen, living_room, bathroom, basement, created_at, updated_at"

// RenovationRepo provides access to renovations.
type RenovationRepo struct {
	db *sql.DB
}

// NewRenovationRepo returns a new RenovationRepo.
func NewRenovationRepo(db *sql.DB) *RenovationRepo {
	return &RenovationRepo{db: db}
}

// Create inserts a renovation.  ErrListingNotFound is returned when the
// referenced listing does not exist.
func (r *RenovationRepo) Create(ctx context.Context, rn *model.Renovation) error {
	if err := insertRenovation(ctx, r.db, rn); err != nil {
		if isForeignKey(err) {
			return ErrListingNotFound
		}
		return fmt.Errorf("create renovation: %w", err)
	}
	got, err := r.GetByID(ctx, rn.ID)
	if err != nil {
		return err
	}
	*rn = *got
	return nil
}

// GetByID returns a renovation or ErrRenovationNotFound.
func (r *RenovationRepo) GetByID(ctx context.Context, id uint64) (*model.Renovation, error) {
	rn, err := scanRenovation(r.db.QueryRowContext(ctx, "SELECT "+renovationColumns+" FROM renovations WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRenovationNotFound
		}
		return nil, err
	}
	return rn, nil
}

// ListByListing returns every renovation of a listing, oldest first.
// ErrListingNotFound is returned for an unknown listing so callers can
// tell "no renovations" from "no listing".
func (r *RenovationRepo) ListByListing(ctx context.Context, listingID uint64) ([]model.Renovation, error) {
	ok, err := listingExists(ctx, r.db, listingID, false)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrListingNotFound
	}
	return selectRenovations(ctx, r.db, listingID)
}

// Update applies the fields set in p under a row lock and returns the
// stored renovation.
func (r *RenovationRepo) Update(ctx context.Context, id uint64, p model.RenovationPatch) (*model.Renovation, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var one int
		if err := tx.QueryRowContext(ctx, "SELECT 1 FROM renovations WHERE id = ? FOR UPDATE", id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRenovationNotFound
			}
			return err
		}
		var set setClause
		if p.ListingID.Set {
			set.add("listing_id", p.ListingID.Value)
		}
		if p.Bedroom.Set {
			set.add("bedroom", p.Bedroom.Value)
		}
		if p.Kitchen.Set {
			set.add("kitchen", p.Kitchen.Value)
		}
		if p.LivingRoom.Set {
			set.add("living_room", p.LivingRoom.Value)
		}
		if p.Bathroom.Set {
			set.add("bathroom", p.Bathroom.Value)
		}
		if p.Basement.Set {
			set.add("basement", p.Basement.Value)
		}
		if set.empty() {
			return nil
		}
		set.cols = append(set.cols, "updated_at = NOW(3)")
		q := "UPDATE renovations SET " + strings.Join(set.cols, ", ") + " WHERE id = ?"
		_, err := tx.ExecContext(ctx, q, append(set.args, id)...)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrRenovationNotFound):
			return nil, err
		case isForeignKey(err):
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("update renovation %d: %w", id, err)
	}
	return r.GetByID(ctx, id)
}

// Delete removes a renovation.
func (r *RenovationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM renovations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete renovation %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRenovationNotFound
	}
	return nil
}

func insertRenovation(ctx context.Context, q querier, rn *model.Renovation) error {
	const qInsert = `INSERT INTO renovations (listing_id, bedroom, kitchen, living_room, bathroom, basement, created_at, updated_at)
	                 VALUES (?, ?, ?, ?, ?, ?, NOW(3), NOW(3))`
	res, err := q.ExecContext(ctx, qInsert, rn.ListingID, rn.Bedroom, rn.Kitchen, rn.LivingRoom, rn.Bathroom, rn.Basement)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rn.ID = uint64(id)
	return nil
}

func selectRenovations(ctx context.Context, q querier, listingID uint64) ([]model.Renovation, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+renovationColumns+" FROM renovations WHERE listing_id = ? ORDER BY id", listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Renovation, 0)
	for rows.Next() {
		rn, err := scanRenovation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rn)
	}
	return out, rows.Err()
}

func scanRenovation(row rowScanner) (*model.Renovation, error) {
	var rn model.Renovation
	if err := row.Scan(&rn.ID, &rn.ListingID, &rn.Bedroom, &rn.Kitchen, &rn.LivingRoom, &rn.Bathroom, &rn.Basement, &rn.CreatedAt, &rn.UpdatedAt); err != nil {
		return nil, err
	}
	return &rn, nil
}
