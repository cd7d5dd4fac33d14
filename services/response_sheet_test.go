package services

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/vnkhanh/edu-catalog-backend/models"
)

func seedQuizForResponses(t *testing.T, recorder *ResponseRecorder) (models.Quiz, uuid.UUID) {
	t.Helper()
	db := recorder.db

	user := models.User{ID: uuid.New(), Username: "sv", Email: "sv@example.com", Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	group := models.Group{ID: uuid.New(), Track: TrackDegree, Name: "Năm 1"}
	if err := db.Create(&group).Error; err != nil {
		t.Fatalf("seed nhóm: %v", err)
	}
	subject := models.Subject{ID: uuid.New(), GroupID: &group.ID, SubjectName: "Triết"}
	if err := db.Create(&subject).Error; err != nil {
		t.Fatalf("seed môn: %v", err)
	}
	unit := models.Unit{ID: uuid.New(), SubjectID: subject.ID, UnitName: "Chương 1", UnitNumber: 1}
	if err := db.Create(&unit).Error; err != nil {
		t.Fatalf("seed chương: %v", err)
	}
	quiz := models.Quiz{
		ID:         uuid.New(),
		UnitID:     unit.ID,
		QuizNumber: "1",
		QuizTitle:  "Kiểm tra chương 1",
		Questions:  datatypes.JSON(`[]`),
	}
	if err := db.Create(&quiz).Error; err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
	return quiz, user.ID
}

func TestResponseRecorderSave(t *testing.T) {
	db := newTestDB(t)
	recorder := NewResponseRecorder(db)
	quiz, userID := seedQuizForResponses(t, recorder)

	questions := sampleQuestions()
	score := ScoreQuiz(questions, map[int]string{0: "4", 1: "Huế"})

	response, err := recorder.Save(&quiz, userID, score)
	if err != nil {
		t.Fatalf("lưu kết quả lỗi: %v", err)
	}
	if response.CorrectAnswers != 1 || response.WrongAnswers != 2 {
		t.Errorf("đúng/sai = %d/%d", response.CorrectAnswers, response.WrongAnswers)
	}

	t.Run("bản ghi nằm dưới quiz", func(t *testing.T) {
		var n int64
		db.Model(&models.QuizResponse{}).Where("quiz_id = ?", quiz.ID).Count(&n)
		if n != 1 {
			t.Fatalf("mong đợi 1 bản ghi, nhận %d", n)
		}
	})

	t.Run("lần nộp đầu tạo sheet với một entry", func(t *testing.T) {
		sheet, entries, err := recorder.SheetFor(userID)
		if err != nil {
			t.Fatalf("SheetFor lỗi: %v", err)
		}
		if sheet.Version != 1 {
			t.Errorf("version = %d, mong đợi 1", sheet.Version)
		}
		if len(entries) != 1 {
			t.Fatalf("mong đợi 1 entry, nhận %d", len(entries))
		}
		if entries[0].QuizTitle != quiz.QuizTitle {
			t.Errorf("entry thiếu tiêu đề quiz: %+v", entries[0])
		}
	})

	t.Run("nộp lần hai append vào sheet", func(t *testing.T) {
		score2 := ScoreQuiz(questions, map[int]string{0: "4", 1: "Hà Nội", 2: "Nước"})
		if _, err := recorder.Save(&quiz, userID, score2); err != nil {
			t.Fatalf("lưu lần hai lỗi: %v", err)
		}

		sheet, entries, err := recorder.SheetFor(userID)
		if err != nil {
			t.Fatalf("SheetFor lỗi: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("mong đợi 2 entry, nhận %d", len(entries))
		}
		if sheet.Version != 2 {
			t.Errorf("version = %d, mong đợi 2", sheet.Version)
		}
		// Entry cũ không bị ghi đè.
		if entries[0].CorrectAnswers != 1 || entries[1].CorrectAnswers != 3 {
			t.Errorf("entries sai thứ tự hoặc mất dữ liệu: %+v", entries)
		}
	})
}

func TestAppendToSheetAfterExternalUpdate(t *testing.T) {
	db := newTestDB(t)
	recorder := NewResponseRecorder(db)
	_, userID := seedQuizForResponses(t, recorder)

	if err := recorder.AppendToSheet(userID, models.SheetEntry{QuizTitle: "A"}); err != nil {
		t.Fatalf("append đầu lỗi: %v", err)
	}

	// Một writer khác vừa cập nhật sheet: version nhảy lên 5.
	if err := db.Model(&models.ResponseSheet{}).Where("user_id = ?", userID).
		Update("version", 5).Error; err != nil {
		t.Fatal(err)
	}

	// Append đọc bản mới nhất nên vẫn thành công, không ghi đè mất dữ liệu.
	if err := recorder.AppendToSheet(userID, models.SheetEntry{QuizTitle: "B"}); err != nil {
		t.Fatalf("append sau xung đột lỗi: %v", err)
	}

	sheet, entries, err := recorder.SheetFor(userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("mong đợi 2 entry, nhận %d", len(entries))
	}
	if sheet.Version != 6 {
		t.Errorf("version = %d, mong đợi 6", sheet.Version)
	}
}

func TestSheetForWithoutHistory(t *testing.T) {
	db := newTestDB(t)
	recorder := NewResponseRecorder(db)

	sheet, entries, err := recorder.SheetFor(uuid.New())
	if err != nil {
		t.Fatalf("SheetFor lỗi: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("người chưa làm bài phải có sheet rỗng, nhận %d entry", len(entries))
	}
	if sheet == nil {
		t.Fatal("sheet rỗng vẫn phải trả về, không phải nil")
	}
}
