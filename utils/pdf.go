package utils

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/ledongthuc/pdf"
)

// previewLimit giới hạn độ dài đoạn text xem trước lưu kèm chương.
const previewLimit = 500

// InspectPDF đọc file PDF upload lên, trả về số trang và một đoạn text
// xem trước (trang lỗi được bỏ qua).
func InspectPDF(fileHeader *multipart.FileHeader) (pages int, preview string, err error) {
	file, err := fileHeader.Open()
	if err != nil {
		return 0, "", err
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return 0, "", fmt.Errorf("lỗi đọc file PDF: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		return 0, "", fmt.Errorf("không thể tạo reader PDF: %w", err)
	}

	pages = reader.NumPage()

	var textBuilder strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		textBuilder.WriteString(content)
		if textBuilder.Len() >= previewLimit {
			break
		}
	}

	preview = strings.TrimSpace(textBuilder.String())
	if len(preview) > previewLimit {
		preview = preview[:previewLimit]
	}
	return pages, preview, nil
}
