package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/renotrack/renovation-tracker/internal/model"
)

const photoColumns = "id, listing_id, url, room_type, created_at, updated_at"

// PhotoRepo provides access to listing photos.
type PhotoRepo struct {
	db *sql.DB
}

// NewPhotoRepo returns a new PhotoRepo.
func NewPhotoRepo(db *sql.DB) *PhotoRepo {
	return &PhotoRepo{db: db}
}

// Create inserts a photo.  ErrListingNotFound is returned when the
// referenced listing does not exist.
func (r *PhotoRepo) Create(ctx context.Context, p *model.Photo) error {
	if err := insertPhoto(ctx, r.db, p); err != nil {
		if isForeignKey(err) {
			return ErrListingNotFound
		}
		return fmt.Errorf("create photo: %w", err)
	}
	got, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *got
	return nil
}

// GetByID returns a photo or ErrPhotoNotFound.
func (r *PhotoRepo) GetByID(ctx context.Context, id uint64) (*model.Photo, error) {
	p, err := scanPhoto(r.db.QueryRowContext(ctx, "SELECT "+photoColumns+" FROM photos WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPhotoNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListByListing returns the photos of a listing in insertion order.
func (r *PhotoRepo) ListByListing(ctx context.Context, listingID uint64) ([]model.Photo, error) {
	ok, err := listingExists(ctx, r.db, listingID, false)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrListingNotFound
	}
	return selectPhotos(ctx, r.db, listingID)
}

// Update applies the fields set in p under a row lock.  The room type
// is expected to be validated by the caller.
func (r *PhotoRepo) Update(ctx context.Context, id uint64, p model.PhotoPatch) (*model.Photo, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var one int
		if err := tx.QueryRowContext(ctx, "SELECT 1 FROM photos WHERE id = ? FOR UPDATE", id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPhotoNotFound
			}
			return err
		}
		var set setClause
		if p.ListingID.Set {
			set.add("listing_id", p.ListingID.Value)
		}
		if p.URL.Set {
			set.add("url", p.URL.Value)
		}
		if p.RoomType.Set {
			set.add("room_type", p.RoomType.Ptr())
		}
		if set.empty() {
			return nil
		}
		set.cols = append(set.cols, "updated_at = NOW(3)")
		q := "UPDATE photos SET " + strings.Join(set.cols, ", ") + " WHERE id = ?"
		_, err := tx.ExecContext(ctx, q, append(set.args, id)...)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrPhotoNotFound):
			return nil, err
		case isForeignKey(err):
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("update photo %d: %w", id, err)
	}
	return r.GetByID(ctx, id)
}

// SetRoomTypeIfNull stores a classification result only when the photo
// has none yet.  It reports whether this call wrote the value.  Two
// racing classifiers therefore never overwrite each other.
func (r *PhotoRepo) SetRoomTypeIfNull(ctx context.Context, id uint64, rt model.RoomType) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE photos SET room_type = ?, updated_at = NOW(3) WHERE id = ? AND room_type IS NULL",
		string(rt), id)
	if err != nil {
		return false, fmt.Errorf("set room type for photo %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Delete removes a photo.
func (r *PhotoRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM photos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete photo %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPhotoNotFound
	}
	return nil
}

func insertPhoto(ctx context.Context, q querier, p *model.Photo) error {
	var rt any
	if p.RoomType != nil {
		rt = string(*p.RoomType)
	}
	res, err := q.ExecContext(ctx,
		"INSERT INTO photos (listing_id, url, room_type, created_at, updated_at) VALUES (?, ?, ?, NOW(3), NOW(3))",
		p.ListingID, p.URL, rt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

func selectPhotos(ctx context.Context, q querier, listingID uint64) ([]model.Photo, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+photoColumns+" FROM photos WHERE listing_id = ? ORDER BY id", listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Photo, 0)
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanPhoto(row rowScanner) (*model.Photo, error) {
	var (
		p  model.Photo
		rt sql.NullString
	)
	if err := row.Scan(&p.ID, &p.ListingID, &p.URL, &rt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if rt.Valid {
		v := model.RoomType(rt.String)
		p.RoomType = &v
	}
	return &p, nil
}
