package serviceimpl

import (
	"context"
	"fmt"
	"sync"

	"face-attendance/domain/models"
	"face-attendance/domain/services"
)

// fakeStudentRepo is an in-memory StudentRepository mirroring the label
// assignment contract: first label is 0, then max+1.
type fakeStudentRepo struct {
	mu       sync.Mutex
	students []models.Student
	nextID   uint

	failCreate error
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{nextID: 1}
}

func (r *fakeStudentRepo) Create(_ context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failCreate != nil {
		return r.failCreate
	}

	label := 0
	for _, s := range r.students {
		if s.LabelID >= label {
			label = s.LabelID + 1
		}
	}
	student.ID = r.nextID
	student.LabelID = label
	r.nextID++
	r.students = append(r.students, *student)
	return nil
}

func (r *fakeStudentRepo) List(_ context.Context) ([]models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Student, len(r.students))
	copy(out, r.students)
	return out, nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id uint) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.students {
		if s.ID == id {
			out := s
			return &out, nil
		}
	}
	return nil, services.ErrStudentNotFound
}

func (r *fakeStudentRepo) GetByName(_ context.Context, name string) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.students {
		if s.Name == name {
			out := s
			return &out, nil
		}
	}
	return nil, services.ErrStudentNotFound
}

func (r *fakeStudentRepo) GetByLabelID(_ context.Context, labelID int) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.students {
		if s.LabelID == labelID {
			out := s
			return &out, nil
		}
	}
	return nil, services.ErrStudentNotFound
}

func (r *fakeStudentRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.students {
		if s.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeStudentRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.students {
		if s.ID == id {
			r.students = append(r.students[:i], r.students[i+1:]...)
			return nil
		}
	}
	return services.ErrStudentNotFound
}

func (r *fakeStudentRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.students)), nil
}

// fakeImageStore records saves and deletes without touching the filesystem.
type fakeImageStore struct {
	mu      sync.Mutex
	saves   []string
	deletes []string
	counter int
}

func (s *fakeImageStore) Save(name string, _ []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	path := fmt.Sprintf("images/%s_%d.jpg", name, s.counter)
	s.saves = append(s.saves, path)
	return path, nil
}

func (s *fakeImageStore) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, path)
	return nil
}
