package utils

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

const storageBucket = "uploads"

func storageClient() *storage.Client {
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")
	return storage.NewClient(supabaseURL+"/storage/v1", supabaseKey, nil)
}

func publicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		os.Getenv("SUPABASE_URL"), storageBucket, objectPath)
}

// uploadMultipart đẩy một file multipart lên bucket uploads tại folder chỉ định.
// Tên object: <folder>/<fileID>.<ext>
func uploadMultipart(fileHeader *multipart.FileHeader, folder, fileID string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", err
	}

	ext := filepath.Ext(fileHeader.Filename)
	objectPath := fmt.Sprintf("%s/%s%s", folder, fileID, ext)

	contentType := fileHeader.Header.Get("Content-Type")
	options := storage.FileOptions{
		ContentType: &contentType,
	}

	if _, err := storageClient().UploadFile(storageBucket, objectPath, &buf, options); err != nil {
		return "", err
	}

	return publicURL(objectPath), nil
}

// UploadUnitImage upload ảnh minh họa của chương: uploads/units/images/<unitID>.<ext>
func UploadUnitImage(fileHeader *multipart.FileHeader, unitID string) (string, error) {
	return uploadMultipart(fileHeader, "units/images", unitID)
}

// UploadUnitPDF upload file PDF của chương: uploads/units/pdfs/<unitID>.pdf
func UploadUnitPDF(fileHeader *multipart.FileHeader, unitID string) (string, error) {
	return uploadMultipart(fileHeader, "units/pdfs", unitID)
}

// UploadAvatar upload ảnh đại diện người dùng: uploads/avatars/<userID>.<ext>
func UploadAvatar(fileHeader *multipart.FileHeader, userID string) (string, error) {
	return uploadMultipart(fileHeader, "avatars", userID)
}

// ObjectPathFromURL tách bucket và object path từ public URL của Supabase.
func ObjectPathFromURL(fileURL string) (bucket, object string, err error) {
	idx := strings.Index(fileURL, "/storage/v1/object/")
	if idx == -1 {
		return "", "", fmt.Errorf("không xác định được đường dẫn object trong URL: %s", fileURL)
	}

	rest := fileURL[idx+len("/storage/v1/object/"):]
	// Luôn bỏ prefix "public/" nếu có
	rest = strings.TrimPrefix(rest, "public/")

	parts := strings.SplitN(rest, "/", 2)
	if len(parts) < 2 {
		return "", "", fmt.Errorf("không parse được bucket/object từ URL: %s", fileURL)
	}
	bucket = parts[0]
	object = parts[1]

	// bỏ query params nếu có
	if qIdx := strings.Index(object, "?"); qIdx != -1 {
		object = object[:qIdx]
	}
	if u, err := url.PathUnescape(object); err == nil {
		object = u
	}
	return bucket, object, nil
}

// DeleteFileFromSupabase nhận public URL và gọi API Supabase Storage để xóa object.
// URL rỗng được bỏ qua (blob không tồn tại -> không có gì để xóa).
func DeleteFileFromSupabase(fileURL string) error {
	if fileURL == "" {
		return nil
	}

	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")
	if supabaseURL == "" || supabaseKey == "" {
		return fmt.Errorf("SUPABASE_URL hoặc SUPABASE_KEY chưa cấu hình")
	}

	bucket, object, err := ObjectPathFromURL(fileURL)
	if err != nil {
		return err
	}

	deleteURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", strings.TrimRight(supabaseURL, "/"), bucket, object)

	req, err := http.NewRequest(http.MethodDelete, deleteURL, nil)
	if err != nil {
		return err
	}
	// Supabase yêu cầu Authorization: Bearer <SERVICE_KEY> và header apikey
	req.Header.Set("Authorization", "Bearer "+supabaseKey)
	req.Header.Set("apikey", supabaseKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	// Supabase trả 200 hoặc 204 khi xóa thành công
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("xóa file Supabase thất bại: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}
