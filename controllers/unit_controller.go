package controllers

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/edu-catalog-backend/config"
	"github.com/vnkhanh/edu-catalog-backend/models"
	"github.com/vnkhanh/edu-catalog-backend/services"
	"github.com/vnkhanh/edu-catalog-backend/utils"
	"github.com/vnkhanh/edu-catalog-backend/ws"
)

// Giới hạn file đính kèm của chương (ảnh hoặc PDF).
const maxUnitFileSize = 20 << 20 // 20MB

var allowedImageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

func checkUnitFile(fileHeader *multipart.FileHeader, wantPDF bool) error {
	if fileHeader.Size > maxUnitFileSize {
		return errors.New("file vượt quá giới hạn 20MB")
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if wantPDF {
		if ext != ".pdf" {
			return errors.New("file phải có đuôi .pdf")
		}
		return nil
	}
	if !allowedImageExts[ext] {
		return errors.New("ảnh phải là jpg, jpeg, png hoặc webp")
	}
	return nil
}

// GetUnitsBySubject liệt kê các chương của một môn học theo số thứ tự.
func GetUnitsBySubject(c *gin.Context) {
	subjectID, err := uuid.Parse(c.Param("subjectId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID môn học không hợp lệ"})
		return
	}

	var units []models.Unit
	if err := config.DB.Where("subject_id = ?", subjectID).Order("unit_number ASC").Find(&units).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách chương"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"units": units})
}

// GetUnit trả về chi tiết một chương kèm danh sách bộ trắc nghiệm của nó.
func GetUnit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return
	}

	var unit models.Unit
	if err := config.DB.First(&unit, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy chương"})
		return
	}

	var quizzes []models.Quiz
	if err := config.DB.Select("id", "unit_id", "quiz_number", "quiz_title", "created_at").
		Where("unit_id = ?", id).Order("quiz_number ASC").Find(&quizzes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách bộ trắc nghiệm"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unit": unit, "quizzes": quizzes})
}

func trackOfUnit(unit *models.Unit) string {
	var subject models.Subject
	if err := config.DB.First(&subject, "id = ?", unit.SubjectID).Error; err != nil {
		return ""
	}
	return trackOfSubject(&subject)
}

// CreateUnit tạo chương mới (multipart). Ảnh minh họa và PDF là tùy chọn;
// PDF được đọc số trang và đoạn text đầu làm preview.
func CreateUnit(c *gin.Context) {
	subjectID, err := uuid.Parse(c.PostForm("subject_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject_id không hợp lệ"})
		return
	}
	unitName := c.PostForm("unit_name")
	if unitName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Thiếu tên chương"})
		return
	}
	unitNumber, err := strconv.Atoi(c.DefaultPostForm("unit_number", "1"))
	if err != nil || unitNumber < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unit_number không hợp lệ"})
		return
	}

	var subject models.Subject
	if err := config.DB.First(&subject, "id = ?", subjectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy môn học"})
		return
	}
	track := trackOfSubject(&subject)

	parent := services.ParentRef{Track: track, Level: services.LevelSubject, ID: subjectID}
	dup, err := catalog().Exists(parent, unitName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể kiểm tra tên chương"})
		return
	}
	if dup {
		c.JSON(http.StatusConflict, gin.H{"error": "Tên chương đã tồn tại trong môn học này"})
		return
	}

	unit := models.Unit{
		ID:         uuid.New(),
		SubjectID:  subjectID,
		UnitName:   unitName,
		UnitNumber: unitNumber,
		CreatedBy:  currentUserID(c),
	}

	if imageHeader, ferr := c.FormFile("image"); ferr == nil {
		if err := checkUnitFile(imageHeader, false); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		imageURL, uerr := utils.UploadUnitImage(imageHeader, unit.ID.String())
		if uerr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể upload ảnh"})
			return
		}
		unit.UnitImageURL = &imageURL
	}

	if pdfHeader, ferr := c.FormFile("pdf"); ferr == nil {
		if err := checkUnitFile(pdfHeader, true); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		pages, preview, perr := utils.InspectPDF(pdfHeader)
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File PDF không hợp lệ"})
			return
		}
		pdfURL, uerr := utils.UploadUnitPDF(pdfHeader, unit.ID.String())
		if uerr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể upload PDF"})
			return
		}
		unit.UnitPdfLink = &pdfURL
		unit.PdfPages = pages
		unit.PdfPreview = preview
	}

	if err := config.DB.Create(&unit).Error; err != nil {
		// DB hỏng sau khi đã upload: dọn file để không thành mồ côi.
		if unit.UnitImageURL != nil {
			if derr := utils.DeleteFileFromSupabase(*unit.UnitImageURL); derr != nil {
				log.Println("Lỗi dọn ảnh sau khi tạo chương thất bại:", derr)
			}
		}
		if unit.UnitPdfLink != nil {
			if derr := utils.DeleteFileFromSupabase(*unit.UnitPdfLink); derr != nil {
				log.Println("Lỗi dọn PDF sau khi tạo chương thất bại:", derr)
			}
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo chương"})
		return
	}

	if track != "" {
		ws.DefaultHub.BroadcastCatalogChanged(track)
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Tạo chương thành công", "unit": unit})
}

// UpdateUnit cập nhật chương (multipart, merge). File mới thay file cũ thì
// file cũ bị xóa khỏi storage.
func UpdateUnit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return
	}

	var unit models.Unit
	if err := config.DB.First(&unit, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy chương"})
		return
	}

	updates := map[string]interface{}{}
	if name := c.PostForm("unit_name"); name != "" {
		updates["unit_name"] = name
	}
	if raw := c.PostForm("unit_number"); raw != "" {
		number, aerr := strconv.Atoi(raw)
		if aerr != nil || number < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unit_number không hợp lệ"})
			return
		}
		updates["unit_number"] = number
	}

	var oldBlobs []string
	if imageHeader, ferr := c.FormFile("image"); ferr == nil {
		if err := checkUnitFile(imageHeader, false); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		imageURL, uerr := utils.UploadUnitImage(imageHeader, unit.ID.String()+"-"+uuid.NewString()[:8])
		if uerr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể upload ảnh"})
			return
		}
		if unit.UnitImageURL != nil {
			oldBlobs = append(oldBlobs, *unit.UnitImageURL)
		}
		updates["unit_image_url"] = imageURL
	}
	if pdfHeader, ferr := c.FormFile("pdf"); ferr == nil {
		if err := checkUnitFile(pdfHeader, true); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		pages, preview, perr := utils.InspectPDF(pdfHeader)
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File PDF không hợp lệ"})
			return
		}
		pdfURL, uerr := utils.UploadUnitPDF(pdfHeader, unit.ID.String()+"-"+uuid.NewString()[:8])
		if uerr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể upload PDF"})
			return
		}
		if unit.UnitPdfLink != nil {
			oldBlobs = append(oldBlobs, *unit.UnitPdfLink)
		}
		updates["unit_pdf_link"] = pdfURL
		updates["pdf_pages"] = pages
		updates["pdf_preview"] = preview
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Không có gì để cập nhật", "unit": unit})
		return
	}
	updates["updated_by"] = currentUserID(c)

	if err := config.DB.Model(&unit).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật chương"})
		return
	}

	// File cũ chỉ xóa sau khi DB đã trỏ sang file mới.
	for _, blobURL := range oldBlobs {
		if derr := utils.DeleteFileFromSupabase(blobURL); derr != nil {
			log.Println("Lỗi xóa file cũ của chương:", derr)
		}
	}

	if track := trackOfUnit(&unit); track != "" {
		ws.DefaultHub.BroadcastCatalogChanged(track)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cập nhật chương thành công", "unit": unit})
}

// DeleteUnit xóa chương, file đính kèm, bộ trắc nghiệm và lịch sử làm bài.
func DeleteUnit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return
	}

	var unit models.Unit
	if err := config.DB.First(&unit, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy chương"})
		return
	}
	track := trackOfUnit(&unit)

	if err := cascade().Delete(services.LevelUnit, id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy chương"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Xóa chương chưa hoàn tất: " + err.Error()})
		return
	}

	if track != "" {
		ws.DefaultHub.BroadcastCatalogChanged(track)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Xóa chương thành công"})
}
