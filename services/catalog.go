package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/vnkhanh/edu-catalog-backend/models"
)

// Level là một cấp trong cây danh mục.
type Level string

const (
	LevelGroup    Level = "group"
	LevelCourse   Level = "course"
	LevelSemester Level = "semester"
	LevelSubject  Level = "subject"
	LevelUnit     Level = "unit"
	LevelQuiz     Level = "quiz"
)

// Các hệ đào tạo cố định của ứng dụng.
const (
	TrackSSC          = "SSC"
	TrackIntermediate = "INTERMEDIATE"
	TrackBTech        = "BTECH"
	TrackDegree       = "DEGREE"
	TrackPG           = "PG"
	TrackMedical      = "MEDICAL"
)

// TrackLevels: thứ tự các cấp dưới mỗi hệ. Độ sâu khác nhau tùy hệ.
var TrackLevels = map[string][]Level{
	TrackSSC:          {LevelGroup, LevelSubject, LevelUnit, LevelQuiz},
	TrackMedical:      {LevelGroup, LevelSubject, LevelUnit, LevelQuiz},
	TrackIntermediate: {LevelGroup, LevelCourse, LevelSubject, LevelUnit, LevelQuiz},
	TrackBTech:        {LevelGroup, LevelCourse, LevelSemester, LevelSubject, LevelUnit, LevelQuiz},
	TrackDegree:       {LevelGroup, LevelCourse, LevelSemester, LevelSubject, LevelUnit, LevelQuiz},
	TrackPG:           {LevelGroup, LevelCourse, LevelSemester, LevelSubject, LevelUnit, LevelQuiz},
}

func ValidTrack(track string) bool {
	_, ok := TrackLevels[strings.ToUpper(track)]
	return ok
}

var (
	ErrDuplicateName = errors.New("tên đã tồn tại trong cùng cấp cha")
	ErrUnknownLevel  = errors.New("cấp danh mục không hợp lệ")
	ErrInvalidParent = errors.New("cấp cha không hợp lệ cho hệ đào tạo này")
	ErrNotFound      = errors.New("không tìm thấy node")
)

// Segment là một mắt xích trong đường dẫn danh mục: cấp + id document.
type Segment struct {
	Level Level     `json:"level"`
	ID    uuid.UUID `json:"id"`
}

// Path định vị một node bằng chuỗi segment từ gốc hệ đào tạo xuống,
// thay cho cách ghép chuỗi path thủ công.
type Path []Segment

// Validate kiểm tra thứ tự các cấp trong path khớp với hệ đào tạo.
func (p Path) Validate(track string) error {
	seq, ok := TrackLevels[strings.ToUpper(track)]
	if !ok {
		return fmt.Errorf("hệ đào tạo không hợp lệ: %s", track)
	}
	if len(p) > len(seq) {
		return fmt.Errorf("path sâu %d vượt quá độ sâu %d của hệ %s", len(p), len(seq), track)
	}
	for i, seg := range p {
		if seg.Level != seq[i] {
			return fmt.Errorf("cấp %q ở vị trí %d, mong đợi %q", seg.Level, i, seq[i])
		}
		if seg.ID == uuid.Nil {
			return fmt.Errorf("segment %d thiếu id", i)
		}
	}
	return nil
}

// Leaf trả về segment cuối cùng (node mà path trỏ tới).
func (p Path) Leaf() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

// ParentRef định vị một node cha. Level rỗng nghĩa là gốc hệ đào tạo
// (cha trực tiếp của các Group).
type ParentRef struct {
	Track string
	Level Level
	ID    uuid.UUID
}

// TrackRoot trả về tham chiếu gốc của một hệ đào tạo.
func TrackRoot(track string) ParentRef {
	return ParentRef{Track: strings.ToUpper(track)}
}

// ParentOf chuyển segment cuối của path thành tham chiếu cha cho cấp kế tiếp.
func ParentOf(track string, p Path) ParentRef {
	leaf, ok := p.Leaf()
	if !ok {
		return TrackRoot(track)
	}
	return ParentRef{Track: strings.ToUpper(track), Level: leaf.Level, ID: leaf.ID}
}

// Node là kết quả chung của ListChildren, đủ cho các màn hình danh sách.
type Node struct {
	ID    uuid.UUID `json:"id"`
	Level Level     `json:"level"`
	Name  string    `json:"name"`
}

// NodeFields là dữ liệu insert chung cho các cấp chứa (group..unit).
type NodeFields struct {
	Name      string
	Number    int // chỉ dùng cho unit
	CreatedBy *uuid.UUID
}

// Catalog là repository CRUD chung theo path cho cây danh mục.
// Được khởi tạo một lần với DB và truyền vào controller (không dùng global).
type Catalog struct {
	db *gorm.DB
}

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

// ChildLevel trả về cấp con trực tiếp dưới parent trong hệ đã cho.
func (c *Catalog) ChildLevel(track string, parent Level) (Level, bool) {
	seq, ok := TrackLevels[strings.ToUpper(track)]
	if !ok {
		return "", false
	}
	if parent == "" {
		return seq[0], true
	}
	for i, lv := range seq {
		if lv == parent {
			if i+1 < len(seq) {
				return seq[i+1], true
			}
			return "", false // quiz là cấp lá
		}
	}
	return "", false
}

// parentColumn ánh xạ cấp cha sang cột khóa ngoại tương ứng.
func parentColumn(parent Level) (string, error) {
	switch parent {
	case LevelGroup:
		return "group_id", nil
	case LevelCourse:
		return "course_id", nil
	case LevelSemester:
		return "semester_id", nil
	case LevelSubject:
		return "subject_id", nil
	case LevelUnit:
		return "unit_id", nil
	}
	return "", ErrInvalidParent
}

// ListChildren liệt kê toàn bộ document con trực tiếp của parent.
// Không phân trang: dữ liệu danh mục ở quy mô lớp học.
func (c *Catalog) ListChildren(parent ParentRef) ([]Node, error) {
	childLevel, ok := c.ChildLevel(parent.Track, parent.Level)
	if !ok {
		return nil, ErrInvalidParent
	}

	nodes := []Node{}
	switch childLevel {
	case LevelGroup:
		var groups []models.Group
		if err := c.db.Where("track = ?", parent.Track).Order("created_at ASC").Find(&groups).Error; err != nil {
			return nil, err
		}
		for _, g := range groups {
			nodes = append(nodes, Node{ID: g.ID, Level: LevelGroup, Name: g.Name})
		}
	case LevelCourse:
		var courses []models.Course
		if err := c.db.Where("group_id = ?", parent.ID).Order("created_at ASC").Find(&courses).Error; err != nil {
			return nil, err
		}
		for _, co := range courses {
			nodes = append(nodes, Node{ID: co.ID, Level: LevelCourse, Name: co.CourseName})
		}
	case LevelSemester:
		col, err := parentColumn(parent.Level)
		if err != nil {
			return nil, err
		}
		var semesters []models.Semester
		if err := c.db.Where(col+" = ?", parent.ID).Order("created_at ASC").Find(&semesters).Error; err != nil {
			return nil, err
		}
		for _, s := range semesters {
			nodes = append(nodes, Node{ID: s.ID, Level: LevelSemester, Name: s.SemesterName})
		}
	case LevelSubject:
		col, err := parentColumn(parent.Level)
		if err != nil {
			return nil, err
		}
		var subjects []models.Subject
		if err := c.db.Where(col+" = ?", parent.ID).Order("created_at ASC").Find(&subjects).Error; err != nil {
			return nil, err
		}
		for _, s := range subjects {
			nodes = append(nodes, Node{ID: s.ID, Level: LevelSubject, Name: s.SubjectName})
		}
	case LevelUnit:
		var units []models.Unit
		if err := c.db.Where("subject_id = ?", parent.ID).Order("unit_number ASC").Find(&units).Error; err != nil {
			return nil, err
		}
		for _, u := range units {
			nodes = append(nodes, Node{ID: u.ID, Level: LevelUnit, Name: u.UnitName})
		}
	case LevelQuiz:
		var quizzes []models.Quiz
		if err := c.db.Where("unit_id = ?", parent.ID).Order("quiz_number ASC").Find(&quizzes).Error; err != nil {
			return nil, err
		}
		for _, q := range quizzes {
			nodes = append(nodes, Node{ID: q.ID, Level: LevelQuiz, Name: q.QuizTitle})
		}
	default:
		return nil, ErrUnknownLevel
	}
	return nodes, nil
}

// Exists kiểm tra dưới parent đã có document con mang giá trị định danh này
// chưa (tên với các cấp chứa, quizNumber với quiz). So sánh không phân biệt
// hoa thường. Đây chỉ là guard trước khi insert: hai submit đồng thời vẫn có
// thể cùng vượt qua, các cột có unique index mới chặn được hẳn.
func (c *Catalog) Exists(parent ParentRef, value string) (bool, error) {
	childLevel, ok := c.ChildLevel(parent.Track, parent.Level)
	if !ok {
		return false, ErrInvalidParent
	}

	var count int64
	switch childLevel {
	case LevelGroup:
		err := c.db.Model(&models.Group{}).
			Where("track = ? AND LOWER(name) = LOWER(?)", parent.Track, value).
			Count(&count).Error
		return count > 0, err
	case LevelCourse:
		err := c.db.Model(&models.Course{}).
			Where("group_id = ? AND LOWER(course_name) = LOWER(?)", parent.ID, value).
			Count(&count).Error
		return count > 0, err
	case LevelSemester:
		col, err := parentColumn(parent.Level)
		if err != nil {
			return false, err
		}
		err = c.db.Model(&models.Semester{}).
			Where(col+" = ? AND LOWER(semester_name) = LOWER(?)", parent.ID, value).
			Count(&count).Error
		return count > 0, err
	case LevelSubject:
		col, err := parentColumn(parent.Level)
		if err != nil {
			return false, err
		}
		err = c.db.Model(&models.Subject{}).
			Where(col+" = ? AND LOWER(subject_name) = LOWER(?)", parent.ID, value).
			Count(&count).Error
		return count > 0, err
	case LevelUnit:
		err := c.db.Model(&models.Unit{}).
			Where("subject_id = ? AND LOWER(unit_name) = LOWER(?)", parent.ID, value).
			Count(&count).Error
		return count > 0, err
	case LevelQuiz:
		err := c.db.Model(&models.Quiz{}).
			Where("unit_id = ? AND quiz_number = ?", parent.ID, value).
			Count(&count).Error
		return count > 0, err
	}
	return false, ErrUnknownLevel
}

// Insert thêm một document con dưới parent sau khi qua guard trùng tên.
// Dùng cho các cấp chứa (group, course, semester, subject, unit); quiz được
// tạo riêng trong controller vì mang quizNumber do người tạo đặt.
func (c *Catalog) Insert(parent ParentRef, f NodeFields) (uuid.UUID, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return uuid.Nil, errors.New("tên không được trống")
	}

	dup, err := c.Exists(parent, name)
	if err != nil {
		return uuid.Nil, err
	}
	if dup {
		return uuid.Nil, ErrDuplicateName
	}

	childLevel, _ := c.ChildLevel(parent.Track, parent.Level)
	id := uuid.New()

	switch childLevel {
	case LevelGroup:
		node := models.Group{
			ID:        id,
			Track:     parent.Track,
			Name:      name,
			Slug:      slug.Make(name),
			CreatedBy: f.CreatedBy,
		}
		err = c.db.Create(&node).Error
	case LevelCourse:
		node := models.Course{
			ID:         id,
			GroupID:    parent.ID,
			CourseName: name,
			Slug:       slug.Make(name),
			CreatedBy:  f.CreatedBy,
		}
		err = c.db.Create(&node).Error
	case LevelSemester:
		node := models.Semester{
			ID:           id,
			SemesterName: name,
			CreatedBy:    f.CreatedBy,
		}
		switch parent.Level {
		case LevelCourse:
			node.CourseID = &parent.ID
		case LevelGroup:
			// Mô hình dữ liệu cho phép học kỳ treo trực tiếp dưới nhóm,
			// nhưng TrackLevels hiện tại luôn đặt học kỳ dưới ngành học
			// nên nhánh này chưa có hệ nào đi tới.
			node.GroupID = &parent.ID
		default:
			return uuid.Nil, ErrInvalidParent
		}
		err = c.db.Create(&node).Error
	case LevelSubject:
		node := models.Subject{
			ID:          id,
			SubjectName: name,
			Slug:        slug.Make(name),
			CreatedBy:   f.CreatedBy,
		}
		switch parent.Level {
		case LevelGroup:
			node.GroupID = &parent.ID
		case LevelCourse:
			node.CourseID = &parent.ID
		case LevelSemester:
			node.SemesterID = &parent.ID
		default:
			return uuid.Nil, ErrInvalidParent
		}
		err = c.db.Create(&node).Error
	case LevelUnit:
		node := models.Unit{
			ID:         id,
			SubjectID:  parent.ID,
			UnitName:   name,
			UnitNumber: f.Number,
			CreatedBy:  f.CreatedBy,
		}
		err = c.db.Create(&node).Error
	default:
		return uuid.Nil, ErrUnknownLevel
	}

	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// Rename cập nhật tên (merge, các trường khác giữ nguyên).
func (c *Catalog) Rename(level Level, id uuid.UUID, name string, updatedBy *uuid.UUID) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("tên không được trống")
	}

	var result *gorm.DB
	switch level {
	case LevelGroup:
		result = c.db.Model(&models.Group{}).Where("id = ?", id).
			Updates(map[string]interface{}{"name": name, "slug": slug.Make(name), "updated_by": updatedBy})
	case LevelCourse:
		result = c.db.Model(&models.Course{}).Where("id = ?", id).
			Updates(map[string]interface{}{"course_name": name, "slug": slug.Make(name), "updated_by": updatedBy})
	case LevelSemester:
		result = c.db.Model(&models.Semester{}).Where("id = ?", id).
			Updates(map[string]interface{}{"semester_name": name, "updated_by": updatedBy})
	case LevelSubject:
		result = c.db.Model(&models.Subject{}).Where("id = ?", id).
			Updates(map[string]interface{}{"subject_name": name, "slug": slug.Make(name), "updated_by": updatedBy})
	case LevelUnit:
		result = c.db.Model(&models.Unit{}).Where("id = ?", id).
			Updates(map[string]interface{}{"unit_name": name, "updated_by": updatedBy})
	case LevelQuiz:
		result = c.db.Model(&models.Quiz{}).Where("id = ?", id).
			Updates(map[string]interface{}{"quiz_title": name})
	default:
		return ErrUnknownLevel
	}

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete xóa đúng một document, không đụng tới con cháu
// (xóa đệ quy do CascadeDeleter đảm nhiệm).
func (c *Catalog) Delete(level Level, id uuid.UUID) error {
	switch level {
	case LevelGroup:
		return c.db.Delete(&models.Group{}, "id = ?", id).Error
	case LevelCourse:
		return c.db.Delete(&models.Course{}, "id = ?", id).Error
	case LevelSemester:
		return c.db.Delete(&models.Semester{}, "id = ?", id).Error
	case LevelSubject:
		return c.db.Delete(&models.Subject{}, "id = ?", id).Error
	case LevelUnit:
		return c.db.Delete(&models.Unit{}, "id = ?", id).Error
	case LevelQuiz:
		return c.db.Delete(&models.Quiz{}, "id = ?", id).Error
	}
	return ErrUnknownLevel
}
