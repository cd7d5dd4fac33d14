package services

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/edu-catalog-backend/models"
)

// BlobDeleter xóa một file trên storage theo URL public của nó.
// Triển khai thật là utils.DeleteFileFromSupabase; test thay bằng fake.
type BlobDeleter interface {
	DeleteByURL(fileURL string) error
}

// BlobDeleterFunc cho phép dùng hàm trần làm BlobDeleter.
type BlobDeleterFunc func(fileURL string) error

func (f BlobDeleterFunc) DeleteByURL(fileURL string) error { return f(fileURL) }

// CascadeDeleter xóa một nhánh danh mục theo thứ tự hậu thứ tự (post-order):
// con cháu trước, node gốc sau cùng. Gặp lỗi vẫn đi tiếp các nhánh còn lại
// và trả về lỗi đầu tiên, để một file hỏng không chặn cả cây.
type CascadeDeleter struct {
	db    *gorm.DB
	blobs BlobDeleter
}

func NewCascadeDeleter(db *gorm.DB, blobs BlobDeleter) *CascadeDeleter {
	return &CascadeDeleter{db: db, blobs: blobs}
}

// Delete xóa node ở cấp đã cho cùng toàn bộ con cháu, quiz, lịch sử làm bài
// và file trên storage của chúng.
func (d *CascadeDeleter) Delete(level Level, id uuid.UUID) error {
	switch level {
	case LevelGroup:
		return d.deleteGroup(id)
	case LevelCourse:
		return d.deleteCourse(id)
	case LevelSemester:
		return d.deleteSemester(id)
	case LevelSubject:
		return d.deleteSubject(id)
	case LevelUnit:
		return d.deleteUnit(id)
	case LevelQuiz:
		return d.deleteQuiz(id)
	}
	return ErrUnknownLevel
}

func (d *CascadeDeleter) deleteGroup(id uuid.UUID) error {
	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	var courses []models.Course
	record(d.db.Where("group_id = ?", id).Find(&courses).Error)
	for _, co := range courses {
		record(d.deleteCourse(co.ID))
	}

	// Học kỳ và môn học treo trực tiếp dưới nhóm: dữ liệu cũ có thể còn
	// dạng này dù các hệ hiện tại không tạo mới, quét để không sót mồ côi.
	var semesters []models.Semester
	record(d.db.Where("group_id = ?", id).Find(&semesters).Error)
	for _, s := range semesters {
		record(d.deleteSemester(s.ID))
	}

	var subjects []models.Subject
	record(d.db.Where("group_id = ?", id).Find(&subjects).Error)
	for _, s := range subjects {
		record(d.deleteSubject(s.ID))
	}

	record(d.db.Delete(&models.Group{}, "id = ?", id).Error)
	return firstErr
}

func (d *CascadeDeleter) deleteCourse(id uuid.UUID) error {
	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	var semesters []models.Semester
	record(d.db.Where("course_id = ?", id).Find(&semesters).Error)
	for _, s := range semesters {
		record(d.deleteSemester(s.ID))
	}

	var subjects []models.Subject
	record(d.db.Where("course_id = ?", id).Find(&subjects).Error)
	for _, s := range subjects {
		record(d.deleteSubject(s.ID))
	}

	record(d.db.Delete(&models.Course{}, "id = ?", id).Error)
	return firstErr
}

func (d *CascadeDeleter) deleteSemester(id uuid.UUID) error {
	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	var subjects []models.Subject
	record(d.db.Where("semester_id = ?", id).Find(&subjects).Error)
	for _, s := range subjects {
		record(d.deleteSubject(s.ID))
	}

	record(d.db.Delete(&models.Semester{}, "id = ?", id).Error)
	return firstErr
}

func (d *CascadeDeleter) deleteSubject(id uuid.UUID) error {
	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	var units []models.Unit
	record(d.db.Where("subject_id = ?", id).Find(&units).Error)
	for _, u := range units {
		record(d.deleteUnit(u.ID))
	}

	record(d.db.Delete(&models.Subject{}, "id = ?", id).Error)
	return firstErr
}

func (d *CascadeDeleter) deleteUnit(id uuid.UUID) error {
	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	var unit models.Unit
	if err := d.db.First(&unit, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	// Xóa file trên storage trước khi mất dấu URL. Best-effort: lỗi storage
	// được ghi nhận nhưng không giữ lại bản ghi mồ côi trong DB.
	if unit.UnitImageURL != nil {
		if err := d.blobs.DeleteByURL(*unit.UnitImageURL); err != nil {
			log.Printf("Lỗi xóa ảnh chương %s: %v", id, err)
			record(err)
		}
	}
	if unit.UnitPdfLink != nil {
		if err := d.blobs.DeleteByURL(*unit.UnitPdfLink); err != nil {
			log.Printf("Lỗi xóa PDF chương %s: %v", id, err)
			record(err)
		}
	}

	var quizzes []models.Quiz
	record(d.db.Where("unit_id = ?", id).Find(&quizzes).Error)
	for _, q := range quizzes {
		record(d.deleteQuiz(q.ID))
	}

	record(d.db.Delete(&models.Unit{}, "id = ?", id).Error)
	return firstErr
}

func (d *CascadeDeleter) deleteQuiz(id uuid.UUID) error {
	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	record(d.db.Delete(&models.QuizResponse{}, "quiz_id = ?", id).Error)
	record(d.db.Delete(&models.Quiz{}, "id = ?", id).Error)
	return firstErr
}
