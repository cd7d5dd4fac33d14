package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vnkhanh/edu-catalog-backend/models"
)

// fakeBlobDeleter ghi lại các URL được yêu cầu xóa, có thể giả lỗi theo URL.
type fakeBlobDeleter struct {
	deleted []string
	failOn  map[string]error
}

func (f *fakeBlobDeleter) DeleteByURL(fileURL string) error {
	if err, ok := f.failOn[fileURL]; ok {
		return err
	}
	f.deleted = append(f.deleted, fileURL)
	return nil
}

// seedBranch dựng một nhánh SSC đầy đủ: nhóm -> môn -> chương (có file)
// -> quiz -> bài làm.
func seedBranch(t *testing.T, db *gorm.DB) (group models.Group, unit models.Unit, quiz models.Quiz) {
	t.Helper()

	group = models.Group{ID: uuid.New(), Track: TrackSSC, Name: "Lớp 12"}
	if err := db.Create(&group).Error; err != nil {
		t.Fatalf("seed nhóm: %v", err)
	}

	subject := models.Subject{ID: uuid.New(), GroupID: &group.ID, SubjectName: "Hóa học"}
	if err := db.Create(&subject).Error; err != nil {
		t.Fatalf("seed môn: %v", err)
	}

	imageURL := "https://x.supabase.co/storage/v1/object/public/uploads/units/images/a.png"
	pdfURL := "https://x.supabase.co/storage/v1/object/public/uploads/units/pdfs/a.pdf"
	unit = models.Unit{
		ID:           uuid.New(),
		SubjectID:    subject.ID,
		UnitName:     "Este",
		UnitNumber:   1,
		UnitImageURL: &imageURL,
		UnitPdfLink:  &pdfURL,
	}
	if err := db.Create(&unit).Error; err != nil {
		t.Fatalf("seed chương: %v", err)
	}

	quiz = models.Quiz{
		ID:         uuid.New(),
		UnitID:     unit.ID,
		QuizNumber: "1",
		QuizTitle:  "Trắc nghiệm este",
		Questions:  datatypes.JSON(`[]`),
	}
	if err := db.Create(&quiz).Error; err != nil {
		t.Fatalf("seed quiz: %v", err)
	}

	user := models.User{ID: uuid.New(), Username: "hs", Email: "hs@example.com", Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	response := models.QuizResponse{
		ID:        uuid.New(),
		QuizID:    quiz.ID,
		UserID:    user.ID,
		Questions: datatypes.JSON(`[]`),
	}
	if err := db.Create(&response).Error; err != nil {
		t.Fatalf("seed bài làm: %v", err)
	}
	return group, unit, quiz
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestCascadeDeleteGroup(t *testing.T) {
	db := newTestDB(t)
	group, _, _ := seedBranch(t, db)

	blobs := &fakeBlobDeleter{}
	deleter := NewCascadeDeleter(db, blobs)

	if err := deleter.Delete(LevelGroup, group.ID); err != nil {
		t.Fatalf("xóa nhóm lỗi: %v", err)
	}

	for _, m := range []interface{}{
		&models.Group{}, &models.Subject{}, &models.Unit{}, &models.Quiz{}, &models.QuizResponse{},
	} {
		if n := countRows(t, db, m); n != 0 {
			t.Errorf("%T còn %d bản ghi sau khi xóa nhánh", m, n)
		}
	}

	if len(blobs.deleted) != 2 {
		t.Fatalf("mong đợi 2 file bị xóa, nhận %d: %v", len(blobs.deleted), blobs.deleted)
	}
}

func TestCascadeDeleteDeepBranch(t *testing.T) {
	db := newTestDB(t)

	// Nhánh kiểu Degree: nhóm -> ngành -> học kỳ -> môn -> chương -> quiz.
	group := models.Group{ID: uuid.New(), Track: TrackDegree, Name: "Năm 2"}
	if err := db.Create(&group).Error; err != nil {
		t.Fatal(err)
	}
	course := models.Course{ID: uuid.New(), GroupID: group.ID, CourseName: "CNTT"}
	if err := db.Create(&course).Error; err != nil {
		t.Fatal(err)
	}
	semester := models.Semester{ID: uuid.New(), CourseID: &course.ID, SemesterName: "Học kỳ 1"}
	if err := db.Create(&semester).Error; err != nil {
		t.Fatal(err)
	}
	subject := models.Subject{ID: uuid.New(), SemesterID: &semester.ID, SubjectName: "CTDL"}
	if err := db.Create(&subject).Error; err != nil {
		t.Fatal(err)
	}
	pdfURL := "https://x.supabase.co/storage/v1/object/public/uploads/units/pdfs/ctdl.pdf"
	unit := models.Unit{ID: uuid.New(), SubjectID: subject.ID, UnitName: "Danh sách liên kết", UnitNumber: 1, UnitPdfLink: &pdfURL}
	if err := db.Create(&unit).Error; err != nil {
		t.Fatal(err)
	}
	quiz := models.Quiz{ID: uuid.New(), UnitID: unit.ID, QuizNumber: "1", QuizTitle: "Ôn tập", Questions: datatypes.JSON(`[]`)}
	if err := db.Create(&quiz).Error; err != nil {
		t.Fatal(err)
	}

	blobs := &fakeBlobDeleter{}
	if err := NewCascadeDeleter(db, blobs).Delete(LevelGroup, group.ID); err != nil {
		t.Fatalf("xóa nhóm lỗi: %v", err)
	}

	for _, m := range []interface{}{
		&models.Group{}, &models.Course{}, &models.Semester{},
		&models.Subject{}, &models.Unit{}, &models.Quiz{},
	} {
		if n := countRows(t, db, m); n != 0 {
			t.Errorf("%T còn %d bản ghi sau khi xóa nhánh sâu", m, n)
		}
	}
	if len(blobs.deleted) != 1 || blobs.deleted[0] != pdfURL {
		t.Errorf("file PDF phải bị xóa, nhận: %v", blobs.deleted)
	}
}

func TestCascadeDeleteQuizOnly(t *testing.T) {
	db := newTestDB(t)
	_, _, quiz := seedBranch(t, db)

	blobs := &fakeBlobDeleter{}
	if err := NewCascadeDeleter(db, blobs).Delete(LevelQuiz, quiz.ID); err != nil {
		t.Fatalf("xóa quiz lỗi: %v", err)
	}

	if n := countRows(t, db, &models.Quiz{}); n != 0 {
		t.Errorf("quiz chưa bị xóa")
	}
	if n := countRows(t, db, &models.QuizResponse{}); n != 0 {
		t.Errorf("bài làm của quiz chưa bị xóa")
	}
	// Phần còn lại của nhánh phải nguyên vẹn.
	if n := countRows(t, db, &models.Unit{}); n != 1 {
		t.Errorf("chương bị xóa oan")
	}
	if len(blobs.deleted) != 0 {
		t.Errorf("không được đụng file của chương: %v", blobs.deleted)
	}
}

func TestCascadeDeleteContinuesOnBlobError(t *testing.T) {
	db := newTestDB(t)
	group, unit, _ := seedBranch(t, db)

	blobErr := errors.New("storage 500")
	blobs := &fakeBlobDeleter{failOn: map[string]error{*unit.UnitImageURL: blobErr}}
	deleter := NewCascadeDeleter(db, blobs)

	err := deleter.Delete(LevelGroup, group.ID)
	if !errors.Is(err, blobErr) {
		t.Fatalf("mong đợi lỗi storage đầu tiên được trả về, nhận: %v", err)
	}

	// Lỗi storage không được chặn phần còn lại: DB vẫn sạch.
	for _, m := range []interface{}{
		&models.Group{}, &models.Subject{}, &models.Unit{}, &models.Quiz{}, &models.QuizResponse{},
	} {
		if n := countRows(t, db, m); n != 0 {
			t.Errorf("%T còn %d bản ghi dù chỉ lỗi storage", m, n)
		}
	}

	// File PDF còn lại vẫn được xóa.
	if len(blobs.deleted) != 1 || blobs.deleted[0] != *unit.UnitPdfLink {
		t.Errorf("mong đợi PDF vẫn bị xóa, nhận: %v", blobs.deleted)
	}
}

func TestCascadeDeleteUnitNotFound(t *testing.T) {
	db := newTestDB(t)
	deleter := NewCascadeDeleter(db, &fakeBlobDeleter{})

	err := deleter.Delete(LevelUnit, uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("mong đợi ErrNotFound, nhận: %v", err)
	}
}
