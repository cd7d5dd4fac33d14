package services

import (
	"errors"
	"testing"
	"time"
)

func TestSessionAnswerFlow(t *testing.T) {
	sess := NewSession(3, time.Minute, nil)

	if err := sess.SelectAnswer(0, "A"); err != nil {
		t.Fatalf("chọn đáp án lỗi: %v", err)
	}
	if err := sess.SelectAnswer(2, "C"); err != nil {
		t.Fatalf("chọn đáp án lỗi: %v", err)
	}

	t.Run("danh sách câu bỏ trống 1-based", func(t *testing.T) {
		got := sess.Unanswered()
		if len(got) != 1 || got[0] != 2 {
			t.Fatalf("mong đợi [2], nhận %v", got)
		}
	})

	t.Run("ghi đè đáp án", func(t *testing.T) {
		if err := sess.SelectAnswer(0, "B"); err != nil {
			t.Fatalf("ghi đè lỗi: %v", err)
		}
	})

	t.Run("bỏ chọn đưa câu về bỏ trống", func(t *testing.T) {
		if err := sess.ClearAnswer(2); err != nil {
			t.Fatalf("bỏ chọn lỗi: %v", err)
		}
		got := sess.Unanswered()
		if len(got) != 2 || got[0] != 2 || got[1] != 3 {
			t.Fatalf("mong đợi [2 3], nhận %v", got)
		}
	})

	t.Run("chỉ số ngoài phạm vi", func(t *testing.T) {
		if err := sess.SelectAnswer(5, "A"); err == nil {
			t.Fatal("mong đợi lỗi chỉ số")
		}
	})
}

func TestSessionSubmitGating(t *testing.T) {
	sess := NewSession(2, time.Minute, nil)
	if err := sess.SelectAnswer(0, "A"); err != nil {
		t.Fatal(err)
	}

	t.Run("xác nhận khi chưa yêu cầu nộp bị từ chối", func(t *testing.T) {
		if _, err := sess.ConfirmSubmit(); !errors.Is(err, ErrNotPending) {
			t.Fatalf("mong đợi ErrNotPending, nhận: %v", err)
		}
	})

	unanswered, answers, err := sess.RequestSubmit()
	if err != nil {
		t.Fatalf("yêu cầu nộp lỗi: %v", err)
	}
	if answers != nil {
		t.Fatal("còn câu bỏ trống thì chưa được chốt bài")
	}
	if len(unanswered) != 1 || unanswered[0] != 2 {
		t.Fatalf("cảnh báo câu bỏ trống sai: %v", unanswered)
	}
	if sess.State() != StatePendingConfirmation {
		t.Fatal("còn câu bỏ trống phải chuyển sang chờ xác nhận")
	}

	t.Run("hủy nộp quay lại làm bài", func(t *testing.T) {
		if err := sess.CancelSubmit(); err != nil {
			t.Fatalf("hủy nộp lỗi: %v", err)
		}
		if sess.State() != StateInProgress {
			t.Fatal("trạng thái phải quay về đang làm bài")
		}
		// Vẫn chọn tiếp được.
		if err := sess.SelectAnswer(1, "B"); err != nil {
			t.Fatalf("chọn sau khi hủy lỗi: %v", err)
		}
	})

	t.Run("trả lời đủ thì nộp thẳng không cần xác nhận", func(t *testing.T) {
		unanswered, answers, err := sess.RequestSubmit()
		if err != nil {
			t.Fatalf("yêu cầu nộp lỗi: %v", err)
		}
		if len(unanswered) != 0 {
			t.Fatalf("không còn câu bỏ trống, nhận %v", unanswered)
		}
		if len(answers) != 2 || answers[0] != "A" || answers[1] != "B" {
			t.Fatalf("bản sao đáp án sai: %v", answers)
		}
		if sess.State() != StateSubmitted {
			t.Fatal("trả lời đủ phải chốt bài ngay")
		}
	})

	t.Run("mỗi lượt chỉ nộp một lần", func(t *testing.T) {
		if _, err := sess.ConfirmSubmit(); !errors.Is(err, ErrAlreadySubmitted) {
			t.Fatalf("mong đợi ErrAlreadySubmitted, nhận: %v", err)
		}
		if _, _, err := sess.RequestSubmit(); !errors.Is(err, ErrAlreadySubmitted) {
			t.Fatalf("yêu cầu nộp sau khi nộp phải bị chặn, nhận: %v", err)
		}
		if err := sess.SelectAnswer(0, "C"); !errors.Is(err, ErrAlreadySubmitted) {
			t.Fatalf("chọn sau khi nộp phải bị chặn, nhận: %v", err)
		}
	})
}

func TestSessionConfirmWithUnanswered(t *testing.T) {
	sess := NewSession(3, time.Minute, nil)
	if err := sess.SelectAnswer(1, "B"); err != nil {
		t.Fatal(err)
	}

	if _, _, err := sess.RequestSubmit(); err != nil {
		t.Fatal(err)
	}
	// Người dùng xác nhận nộp dù còn câu bỏ trống.
	answers, err := sess.ConfirmSubmit()
	if err != nil {
		t.Fatalf("xác nhận nộp lỗi: %v", err)
	}
	if len(answers) != 1 || answers[1] != "B" {
		t.Fatalf("mong đợi một đáp án, nhận %v", answers)
	}
	if sess.State() != StateSubmitted {
		t.Fatal("xác nhận xong phải chuyển sang đã nộp")
	}
}

func TestSessionExpiry(t *testing.T) {
	t.Run("hết giờ nộp thẳng với đáp án hiện có", func(t *testing.T) {
		expired := make(chan map[int]string, 1)
		sess := NewSession(2, 30*time.Millisecond, func(answers map[int]string) {
			expired <- answers
		})
		if err := sess.SelectAnswer(0, "A"); err != nil {
			t.Fatal(err)
		}

		select {
		case answers := <-expired:
			if answers[0] != "A" {
				t.Fatalf("đáp án tại thời điểm hết giờ sai: %v", answers)
			}
		case <-time.After(time.Second):
			t.Fatal("onExpire không được gọi")
		}

		if sess.State() != StateSubmitted {
			t.Fatal("hết giờ phải chuyển sang đã nộp")
		}
		if err := sess.SelectAnswer(1, "B"); !errors.Is(err, ErrAlreadySubmitted) {
			t.Fatalf("chọn sau khi hết giờ phải bị chặn, nhận: %v", err)
		}
	})

	t.Run("hết giờ bỏ qua màn hình xác nhận", func(t *testing.T) {
		expired := make(chan map[int]string, 1)
		sess := NewSession(1, 30*time.Millisecond, func(answers map[int]string) {
			expired <- answers
		})
		if _, _, err := sess.RequestSubmit(); err != nil {
			t.Fatal(err)
		}

		select {
		case <-expired:
		case <-time.After(time.Second):
			t.Fatal("đồng hồ phải tiếp tục chạy trong màn hình xác nhận")
		}
		if sess.State() != StateSubmitted {
			t.Fatal("hết giờ phải nộp dù đang chờ xác nhận")
		}
	})

	t.Run("nộp xong thì hết giờ không gọi lại", func(t *testing.T) {
		calls := make(chan struct{}, 2)
		sess := NewSession(1, 40*time.Millisecond, func(map[int]string) {
			calls <- struct{}{}
		})
		if _, _, err := sess.RequestSubmit(); err != nil {
			t.Fatal(err)
		}
		if _, err := sess.ConfirmSubmit(); err != nil {
			t.Fatal(err)
		}

		time.Sleep(100 * time.Millisecond)
		if len(calls) != 0 {
			t.Fatal("onExpire không được gọi sau khi đã nộp tay")
		}
	})
}
