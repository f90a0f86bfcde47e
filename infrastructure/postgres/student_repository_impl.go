package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"face-attendance/domain/models"
	"face-attendance/domain/repositories"
	domainservices "face-attendance/domain/services"
)

type StudentRepositoryImpl struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) repositories.StudentRepository {
	return &StudentRepositoryImpl{db: db}
}

// Create assigns the next label ID and inserts the row in one transaction.
// The table lock serializes concurrent registrations even when there is no
// row yet to lock; the unique index on label_id backs this up.
func (r *StudentRepositoryImpl) Create(ctx context.Context, student *models.Student) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("LOCK TABLE students IN SHARE ROW EXCLUSIVE MODE").Error; err != nil {
			return err
		}

		var students []models.Student
		if err := tx.Order("id ASC").Find(&students).Error; err != nil {
			return err
		}

		next := 0
		for _, s := range students {
			if s.LabelID >= next {
				next = s.LabelID + 1
			}
		}
		student.LabelID = next

		return tx.Create(student).Error
	})
	return translateCreateError(err)
}

// translateCreateError maps a unique violation on insert (two registrations
// with the same name racing past the service-level check) to the conflict
// error handlers already understand.
func translateCreateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainservices.ErrDuplicateStudent
	}
	return err
}

func (r *StudentRepositoryImpl) List(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	err := r.db.WithContext(ctx).Order("id ASC").Find(&students).Error
	return students, err
}

func (r *StudentRepositoryImpl) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainservices.ErrStudentNotFound
		}
		return nil, err
	}
	return &student, nil
}

func (r *StudentRepositoryImpl) GetByName(ctx context.Context, name string) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainservices.ErrStudentNotFound
		}
		return nil, err
	}
	return &student, nil
}

func (r *StudentRepositoryImpl) GetByLabelID(ctx context.Context, labelID int) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).Where("label_id = ?", labelID).First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainservices.ErrStudentNotFound
		}
		return nil, err
	}
	return &student, nil
}

func (r *StudentRepositoryImpl) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Student{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (r *StudentRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Student{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainservices.ErrStudentNotFound
	}
	return nil
}

func (r *StudentRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Student{}).Count(&count).Error
	return count, err
}
