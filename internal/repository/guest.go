package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/carloszaep/my-prostore/internal/model"
)

type GuestUserRepository interface {
	Create(ctx context.Context, guest *model.GuestUser) error
	FindByID(ctx context.Context, id string) (*model.GuestUser, error)
	FindByEmail(ctx context.Context, email string) (*model.GuestUser, error)
	// Updates writes the named columns from values. The struct form keeps
	// gorm's json serializer in play for the address column.
	Updates(ctx context.Context, id string, values *model.GuestUser, columns []string) error
}

type guestRepoImpl struct {
	db *gorm.DB
}

func NewGuestUserRepository(db *gorm.DB) GuestUserRepository {
	return &guestRepoImpl{db: db}
}

func (r *guestRepoImpl) Create(ctx context.Context, guest *model.GuestUser) error {
	return r.db.WithContext(ctx).Create(guest).Error
}

func (r *guestRepoImpl) FindByID(ctx context.Context, id string) (*model.GuestUser, error) {
	var guest model.GuestUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&guest).Error
	if err != nil {
		return nil, err
	}

	return &guest, nil
}

func (r *guestRepoImpl) FindByEmail(ctx context.Context, email string) (*model.GuestUser, error) {
	var guest model.GuestUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&guest).Error
	if err != nil {
		return nil, err
	}

	return &guest, nil
}

func (r *guestRepoImpl) Updates(ctx context.Context, id string, values *model.GuestUser, columns []string) error {
	return r.db.WithContext(ctx).Model(&model.GuestUser{}).
		Where("id = ?", id).
		Select(columns).
		Updates(values).Error
}
