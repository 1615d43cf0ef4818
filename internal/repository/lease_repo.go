package repository

import (
	"time"

	"korus/internal/models"

	"gorm.io/gorm"
)

type LeaseRepository struct {
	db *gorm.DB
}

func NewLeaseRepository(db *gorm.DB) *LeaseRepository {
	return &LeaseRepository{db: db}
}

// Acquire takes the named lease for holder until now+ttl. It succeeds when
// the lease does not exist, has expired, or is already held by this holder.
func (r *LeaseRepository) Acquire(name, holder string, ttl time.Duration, now time.Time) (bool, error) {
	expires := now.Add(ttl)

	res := r.db.Model(&models.JobLease{}).
		Where("name = ? AND (holder = ? OR expires_at < ?)", name, holder, now).
		Updates(map[string]interface{}{
			"holder":     holder,
			"expires_at": expires,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	err := r.db.Create(&models.JobLease{Name: name, Holder: holder, ExpiresAt: expires}).Error
	if err != nil {
		// Row exists and is held by someone else, or two creators raced.
		return false, nil
	}
	return true, nil
}

func (r *LeaseRepository) Release(name, holder string) error {
	return r.db.Where("name = ? AND holder = ?", name, holder).
		Delete(&models.JobLease{}).Error
}
