package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestPathValidate(t *testing.T) {
	groupID := uuid.New()
	subjectID := uuid.New()

	t.Run("path hợp lệ với hệ SSC", func(t *testing.T) {
		p := Path{
			{Level: LevelGroup, ID: groupID},
			{Level: LevelSubject, ID: subjectID},
		}
		if err := p.Validate(TrackSSC); err != nil {
			t.Fatalf("mong đợi hợp lệ, nhận lỗi: %v", err)
		}
	})

	t.Run("SSC không có cấp ngành học", func(t *testing.T) {
		p := Path{
			{Level: LevelGroup, ID: groupID},
			{Level: LevelCourse, ID: uuid.New()},
		}
		if err := p.Validate(TrackSSC); err == nil {
			t.Fatal("mong đợi lỗi thứ tự cấp")
		}
	})

	t.Run("Degree yêu cầu ngành trước học kỳ", func(t *testing.T) {
		p := Path{
			{Level: LevelGroup, ID: groupID},
			{Level: LevelSemester, ID: uuid.New()},
		}
		if err := p.Validate(TrackDegree); err == nil {
			t.Fatal("mong đợi lỗi thứ tự cấp")
		}
	})

	t.Run("path sâu quá độ sâu của hệ", func(t *testing.T) {
		p := Path{
			{Level: LevelGroup, ID: uuid.New()},
			{Level: LevelSubject, ID: uuid.New()},
			{Level: LevelUnit, ID: uuid.New()},
			{Level: LevelQuiz, ID: uuid.New()},
			{Level: LevelQuiz, ID: uuid.New()},
		}
		if err := p.Validate(TrackSSC); err == nil {
			t.Fatal("mong đợi lỗi vượt độ sâu")
		}
	})

	t.Run("segment thiếu id", func(t *testing.T) {
		p := Path{{Level: LevelGroup, ID: uuid.Nil}}
		if err := p.Validate(TrackSSC); err == nil {
			t.Fatal("mong đợi lỗi thiếu id")
		}
	})

	t.Run("hệ đào tạo không tồn tại", func(t *testing.T) {
		if err := (Path{}).Validate("PHD"); err == nil {
			t.Fatal("mong đợi lỗi hệ không hợp lệ")
		}
	})
}

func TestChildLevel(t *testing.T) {
	catalog := NewCatalog(nil)

	cases := []struct {
		track  string
		parent Level
		want   Level
		ok     bool
	}{
		{TrackSSC, "", LevelGroup, true},
		{TrackSSC, LevelGroup, LevelSubject, true},
		{TrackIntermediate, LevelGroup, LevelCourse, true},
		{TrackIntermediate, LevelCourse, LevelSubject, true},
		{TrackDegree, LevelCourse, LevelSemester, true},
		{TrackDegree, LevelSemester, LevelSubject, true},
		{TrackBTech, LevelUnit, LevelQuiz, true},
		{TrackPG, LevelQuiz, "", false}, // quiz là cấp lá
		{TrackSSC, LevelSemester, "", false},
	}
	for _, tc := range cases {
		got, ok := catalog.ChildLevel(tc.track, tc.parent)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ChildLevel(%s, %q) = (%q, %v), mong đợi (%q, %v)",
				tc.track, tc.parent, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCatalogInsertAndList(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalog(db)

	root := TrackRoot(TrackSSC)
	groupID, err := catalog.Insert(root, NodeFields{Name: "Lớp 10"})
	if err != nil {
		t.Fatalf("tạo nhóm thất bại: %v", err)
	}

	t.Run("trùng tên trong cùng cha bị chặn", func(t *testing.T) {
		if _, err := catalog.Insert(root, NodeFields{Name: "Lớp 10"}); !errors.Is(err, ErrDuplicateName) {
			t.Fatalf("mong đợi ErrDuplicateName, nhận: %v", err)
		}
	})

	t.Run("trùng tên không phân biệt hoa thường", func(t *testing.T) {
		if _, err := catalog.Insert(root, NodeFields{Name: "lớp 10"}); !errors.Is(err, ErrDuplicateName) {
			t.Fatalf("mong đợi ErrDuplicateName, nhận: %v", err)
		}
	})

	t.Run("cùng tên khác cha vẫn được", func(t *testing.T) {
		rootMedical := TrackRoot(TrackMedical)
		if _, err := catalog.Insert(rootMedical, NodeFields{Name: "Lớp 10"}); err != nil {
			t.Fatalf("tạo nhóm ở hệ khác thất bại: %v", err)
		}
	})

	groupParent := ParentRef{Track: TrackSSC, Level: LevelGroup, ID: groupID}
	subjectID, err := catalog.Insert(groupParent, NodeFields{Name: "Toán"})
	if err != nil {
		t.Fatalf("tạo môn học thất bại: %v", err)
	}
	if _, err := catalog.Insert(groupParent, NodeFields{Name: "Vật lý"}); err != nil {
		t.Fatalf("tạo môn học thất bại: %v", err)
	}

	t.Run("liệt kê node con đúng cấp", func(t *testing.T) {
		nodes, err := catalog.ListChildren(groupParent)
		if err != nil {
			t.Fatalf("ListChildren lỗi: %v", err)
		}
		if len(nodes) != 2 {
			t.Fatalf("mong đợi 2 môn học, nhận %d", len(nodes))
		}
		for _, n := range nodes {
			if n.Level != LevelSubject {
				t.Errorf("node %s có cấp %q, mong đợi subject", n.Name, n.Level)
			}
		}
	})

	t.Run("đổi tên giữ nguyên các trường khác", func(t *testing.T) {
		if err := catalog.Rename(LevelSubject, subjectID, "Toán nâng cao", nil); err != nil {
			t.Fatalf("Rename lỗi: %v", err)
		}
		nodes, _ := catalog.ListChildren(groupParent)
		found := false
		for _, n := range nodes {
			if n.ID == subjectID && n.Name == "Toán nâng cao" {
				found = true
			}
		}
		if !found {
			t.Fatal("không thấy tên mới sau khi đổi")
		}
	})

	t.Run("đổi tên node không tồn tại", func(t *testing.T) {
		if err := catalog.Rename(LevelSubject, uuid.New(), "X", nil); !errors.Is(err, ErrNotFound) {
			t.Fatalf("mong đợi ErrNotFound, nhận: %v", err)
		}
	})

	t.Run("tạo chương mang số thứ tự", func(t *testing.T) {
		subjectParent := ParentRef{Track: TrackSSC, Level: LevelSubject, ID: subjectID}
		unitID, err := catalog.Insert(subjectParent, NodeFields{Name: "Hàm số", Number: 3})
		if err != nil {
			t.Fatalf("tạo chương lỗi: %v", err)
		}
		nodes, err := catalog.ListChildren(subjectParent)
		if err != nil {
			t.Fatalf("ListChildren lỗi: %v", err)
		}
		if len(nodes) != 1 || nodes[0].ID != unitID || nodes[0].Level != LevelUnit {
			t.Fatalf("danh sách chương sai: %+v", nodes)
		}
	})

	t.Run("cha sai cấp cho hệ", func(t *testing.T) {
		// SSC không có học kỳ nên không liệt kê được con của semester.
		_, err := catalog.ListChildren(ParentRef{Track: TrackSSC, Level: LevelSemester, ID: uuid.New()})
		if !errors.Is(err, ErrInvalidParent) {
			t.Fatalf("mong đợi ErrInvalidParent, nhận: %v", err)
		}
	})
}

func TestCatalogExistsQuizNumber(t *testing.T) {
	db := newTestDB(t)
	_, unit, quiz := seedBranch(t, db)
	catalog := NewCatalog(db)

	parent := ParentRef{Track: TrackSSC, Level: LevelUnit, ID: unit.ID}

	dup, err := catalog.Exists(parent, quiz.QuizNumber)
	if err != nil {
		t.Fatalf("Exists lỗi: %v", err)
	}
	if !dup {
		t.Fatal("quizNumber đã dùng trong chương phải báo trùng")
	}

	dup, err = catalog.Exists(parent, "2")
	if err != nil {
		t.Fatalf("Exists lỗi: %v", err)
	}
	if dup {
		t.Fatal("quizNumber chưa dùng không được báo trùng")
	}

	t.Run("cùng số khác chương không tính", func(t *testing.T) {
		other := ParentRef{Track: TrackSSC, Level: LevelUnit, ID: uuid.New()}
		dup, err := catalog.Exists(other, quiz.QuizNumber)
		if err != nil {
			t.Fatalf("Exists lỗi: %v", err)
		}
		if dup {
			t.Fatal("quizNumber chỉ duy nhất trong phạm vi một chương")
		}
	})
}
