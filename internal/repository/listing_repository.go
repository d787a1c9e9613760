package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/renotrack/renovation-tracker/internal/model"
)

const listingColumns = "id, url, address, description, price, bedrooms, bathrooms, year_built, created_at, updated_at"

// ListingRepo encapsulates all database queries related to listings.
type ListingRepo struct {
	db *sql.DB
}

// NewListingRepo constructs a ListingRepo with the provided DB handle.
func NewListingRepo(db *sql.DB) *ListingRepo {
	return &ListingRepo{db: db}
}

// Create inserts a listing together with any Photos and Renovations set
// on it, all in one transaction.  On success the listing and every child
// carry their generated ids and timestamps.  A duplicate address yields
// ErrDuplicateAddress and nothing is written.
func (r *ListingRepo) Create(ctx context.Context, l *model.Listing) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		const qInsert = `INSERT INTO listings (url, address, description, price, bedrooms, bathrooms, year_built, created_at, updated_at)
		                 VALUES (?, ?, ?, ?, ?, ?, ?, NOW(3), NOW(3))`
		res, err := tx.ExecContext(ctx, qInsert, l.URL, l.Address, l.Description, l.Price, l.Bedrooms, l.Bathrooms, l.YearBuilt)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		l.ID = uint64(id)

		for i := range l.Photos {
			l.Photos[i].ListingID = l.ID
			if err := insertPhoto(ctx, tx, &l.Photos[i]); err != nil {
				return err
			}
		}
		for i := range l.Renovations {
			l.Renovations[i].ListingID = l.ID
			if err := insertRenovation(ctx, tx, &l.Renovations[i]); err != nil {
				return err
			}
		}

		// Read back timestamps.
		got, err := scanListing(tx.QueryRowContext(ctx, "SELECT "+listingColumns+" FROM listings WHERE id = ?", l.ID))
		if err != nil {
			return err
		}
		if len(l.Photos) > 0 {
			if got.Photos, err = selectPhotos(ctx, tx, l.ID); err != nil {
				return err
			}
		}
		if len(l.Renovations) > 0 {
			if got.Renovations, err = selectRenovations(ctx, tx, l.ID); err != nil {
				return err
			}
		}
		*l = *got
		return nil
	})
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicateAddress
		}
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

// GetByID fetches a listing without its children.  It returns
// ErrListingNotFound if no row is found.
func (r *ListingRepo) GetByID(ctx context.Context, id uint64) (*model.Listing, error) {
	l, err := scanListing(r.db.QueryRowContext(ctx, "SELECT "+listingColumns+" FROM listings WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return l, nil
}

// GetDetailed fetches a listing with its photos and renovations.
func (r *ListingRepo) GetDetailed(ctx context.Context, id uint64) (*model.Listing, error) {
	l, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Photos, err = selectPhotos(ctx, r.db, id); err != nil {
		return nil, err
	}
	if l.Renovations, err = selectRenovations(ctx, r.db, id); err != nil {
		return nil, err
	}
	return l, nil
}

// List returns a page of listings ordered by id.
func (r *ListingRepo) List(ctx context.Context, limit, offset int) ([]*model.Listing, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+listingColumns+" FROM listings ORDER BY id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Exists reports whether a listing id is present.
func (r *ListingRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	return listingExists(ctx, r.db, id, false)
}

// Update applies only the fields set in p.  The row is locked for the
// duration of the transaction so concurrent patches serialise.  The
// updated listing is returned.
func (r *ListingRepo) Update(ctx context.Context, id uint64, p model.ListingPatch) (*model.Listing, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		ok, err := listingExists(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if !ok {
			return ErrListingNotFound
		}
		var set setClause
		if p.URL.Set {
			set.add("url", p.URL.Ptr())
		}
		if p.Address.Set {
			set.add("address", p.Address.Value)
		}
		if p.Description.Set {
			set.add("description", p.Description.Value)
		}
		if p.Price.Set {
			set.add("price", p.Price.Ptr())
		}
		if p.Bedrooms.Set {
			set.add("bedrooms", p.Bedrooms.Ptr())
		}
		if p.Bathrooms.Set {
			set.add("bathrooms", p.Bathrooms.Ptr())
		}
		if p.YearBuilt.Set {
			set.add("year_built", p.YearBuilt.Ptr())
		}
		if set.empty() {
			return nil
		}
		set.cols = append(set.cols, "updated_at = NOW(3)")
		q := "UPDATE listings SET " + strings.Join(set.cols, ", ") + " WHERE id = ?"
		_, err = tx.ExecContext(ctx, q, append(set.args, id)...)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrListingNotFound):
			return nil, err
		case isDuplicate(err):
			return nil, ErrDuplicateAddress
		}
		return nil, fmt.Errorf("update listing %d: %w", id, err)
	}
	return r.GetByID(ctx, id)
}

// Delete removes a listing and all of its photos and renovations in one
// transaction.  Children are deleted explicitly so the result does not
// depend on the foreign key's ON DELETE action.
func (r *ListingRepo) Delete(ctx context.Context, id uint64) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		ok, err := listingExists(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if !ok {
			return ErrListingNotFound
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM photos WHERE listing_id = ?", id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM renovations WHERE listing_id = ?", id); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, "DELETE FROM listings WHERE id = ?", id)
		return err
	})
	if err != nil && !errors.Is(err, ErrListingNotFound) {
		return fmt.Errorf("delete listing %d: %w", id, err)
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*model.Listing, error) {
	var l model.Listing
	if err := row.Scan(&l.ID, &l.URL, &l.Address, &l.Description, &l.Price, &l.Bedrooms, &l.Bathrooms, &l.YearBuilt, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}
