package services

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrAlreadySubmitted = errors.New("bài làm đã được nộp")
	ErrNotPending       = errors.New("chưa có yêu cầu nộp bài nào đang chờ xác nhận")
)

// SessionState là trạng thái vòng đời của một lượt làm bài.
type SessionState int

const (
	StateInProgress SessionState = iota
	StatePendingConfirmation
	StateSubmitted
)

// Session giữ trạng thái một lượt làm bài có đếm giờ, phía client hoặc một
// node API duy nhất. Đồng hồ không bao giờ dừng: vào màn hình xác nhận nộp
// thời gian vẫn chạy. Hết giờ thì nộp thẳng, bỏ qua bước xác nhận.
type Session struct {
	mu sync.Mutex

	total    int
	answers  map[int]string // chỉ số câu 0-based -> đáp án đã chọn
	state    SessionState
	deadline time.Time
	timer    *time.Timer

	// onExpire được gọi đúng một lần khi hết giờ (trên goroutine của timer),
	// sau khi session đã chuyển sang StateSubmitted.
	onExpire func(answers map[int]string)
}

// NewSession mở một lượt làm bài mới với số câu hỏi và thời lượng cho trước.
// onExpire nhận bản sao các đáp án tại thời điểm hết giờ; truyền nil nếu
// không cần hành động khi hết giờ.
func NewSession(totalQuestions int, duration time.Duration, onExpire func(answers map[int]string)) *Session {
	s := &Session{
		total:    totalQuestions,
		answers:  make(map[int]string),
		state:    StateInProgress,
		deadline: time.Now().Add(duration),
		onExpire: onExpire,
	}
	s.timer = time.AfterFunc(duration, s.expire)
	return s
}

// SelectAnswer ghi nhận (hoặc ghi đè) đáp án cho một câu.
func (s *Session) SelectAnswer(questionIndex int, option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitted {
		return ErrAlreadySubmitted
	}
	if questionIndex < 0 || questionIndex >= s.total {
		return errors.New("chỉ số câu hỏi không hợp lệ")
	}
	s.answers[questionIndex] = option
	return nil
}

// ClearAnswer bỏ chọn đáp án của một câu, trả câu đó về trạng thái bỏ trống.
func (s *Session) ClearAnswer(questionIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitted {
		return ErrAlreadySubmitted
	}
	delete(s.answers, questionIndex)
	return nil
}

// Unanswered trả về số thứ tự (1-based, để hiển thị) các câu còn bỏ trống,
// theo thứ tự tăng dần.
func (s *Session) Unanswered() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unansweredLocked()
}

func (s *Session) unansweredLocked() []int {
	missing := []int{}
	for i := 0; i < s.total; i++ {
		if _, ok := s.answers[i]; !ok {
			missing = append(missing, i+1)
		}
	}
	return missing
}

// RequestSubmit xử lý yêu cầu nộp bài. Còn câu bỏ trống thì chuyển sang
// màn hình xác nhận và trả về danh sách câu bỏ trống (1-based) để cảnh báo,
// chờ ConfirmSubmit. Đã trả lời đủ thì chốt bài ngay, trả về bản sao đáp án
// để chấm — không bắt người dùng xác nhận thêm một bước.
func (s *Session) RequestSubmit() (unanswered []int, answers map[int]string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitted {
		return nil, nil, ErrAlreadySubmitted
	}

	unanswered = s.unansweredLocked()
	if len(unanswered) == 0 {
		s.state = StateSubmitted
		s.timer.Stop()
		return nil, s.snapshotLocked(), nil
	}

	s.state = StatePendingConfirmation
	return unanswered, nil, nil
}

// CancelSubmit quay lại làm bài từ màn hình xác nhận.
func (s *Session) CancelSubmit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateSubmitted:
		return ErrAlreadySubmitted
	case StateInProgress:
		return ErrNotPending
	}
	s.state = StateInProgress
	return nil
}

// ConfirmSubmit chốt bài và trả về bản sao đáp án để chấm. Gọi lần hai trả
// ErrAlreadySubmitted: mỗi lượt chỉ nộp đúng một lần.
func (s *Session) ConfirmSubmit() (map[int]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateSubmitted:
		return nil, ErrAlreadySubmitted
	case StateInProgress:
		return nil, ErrNotPending
	}
	s.state = StateSubmitted
	s.timer.Stop()
	return s.snapshotLocked(), nil
}

// Remaining trả về thời gian còn lại, tối thiểu 0.
func (s *Session) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	left := time.Until(s.deadline)
	if left < 0 {
		return 0
	}
	return left
}

// State trả về trạng thái hiện tại.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// expire nộp bài cưỡng bức khi hết giờ, kể cả đang ở màn hình xác nhận.
func (s *Session) expire() {
	s.mu.Lock()
	if s.state == StateSubmitted {
		s.mu.Unlock()
		return
	}
	s.state = StateSubmitted
	answers := s.snapshotLocked()
	onExpire := s.onExpire
	s.mu.Unlock()

	if onExpire != nil {
		onExpire(answers)
	}
}

func (s *Session) snapshotLocked() map[int]string {
	out := make(map[int]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}
