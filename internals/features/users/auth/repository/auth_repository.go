package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	authModel "volunteerhub_backend/internals/features/users/auth/model"
)

func FindOrganizerByEmail(ctx context.Context, db *gorm.DB, email string) (*authModel.OrganizerModel, error) {
	var o authModel.OrganizerModel
	if err := db.WithContext(ctx).
		Where("LOWER(organizer_email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func CreateOrganizer(ctx context.Context, db *gorm.DB, o *authModel.OrganizerModel) error {
	return db.WithContext(ctx).Create(o).Error
}

func UpdateOrganizerPassword(ctx context.Context, db *gorm.DB, o *authModel.OrganizerModel, hash string) error {
	return db.WithContext(ctx).Model(o).Update("organizer_password_hash", hash).Error
}
