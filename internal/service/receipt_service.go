package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"loan_portal/internal/logger"
	"loan_portal/internal/model"
	"loan_portal/internal/utils"
)

// MaxReceiptSize is the upper bound for a single uploaded image.
const MaxReceiptSize = 5 << 20

var allowedReceiptExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

var allowedReceiptTypes = []string{"image/jpeg", "image/png"}

// ReceiptService stores repayment vouchers on local disk, one directory per
// phone number.
type ReceiptService interface {
	Save(ctx context.Context, phone string, files []*multipart.FileHeader) ([]model.Receipt, error)
	List(ctx context.Context, phone string) ([]model.Receipt, error)
	Path(ctx context.Context, phone, name string) (string, error)
}

type receiptService struct {
	dir string
	log *logger.Logger
	now func() time.Time
}

// NewReceiptService creates a ReceiptService rooted at uploadsDir/receipts.
func NewReceiptService(uploadsDir string, log *logger.Logger) ReceiptService {
	return &receiptService{
		dir: filepath.Join(uploadsDir, "receipts"),
		log: log.With("service", "ReceiptService"),
		now: time.Now,
	}
}

func receiptURL(phone, name string) string {
	return "/api/admin/receipts/" + phone + "/" + name
}

// sniff checks the declared extension and the actual content of an upload
// and returns the extension to store it under.
func sniff(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxReceiptSize {
		return "", ErrFileSizeExceeded
	}
	if !allowedReceiptExts[strings.ToLower(filepath.Ext(fh.Filename))] {
		return "", ErrInvalidFileFormat
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("failed to detect file type: %w", err)
	}
	if !mimetype.EqualsAny(mtype.String(), allowedReceiptTypes...) {
		return "", ErrInvalidFileFormat
	}
	return mtype.Extension(), nil
}

func writeUpload(fh *multipart.FileHeader, path string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file on server: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

// Save validates every file first and only then writes them, so a bad file
// rejects the whole upload.
func (s *receiptService) Save(ctx context.Context, phone string, files []*multipart.FileHeader) ([]model.Receipt, error) {
	if !utils.IsValidPhone(phone) {
		return nil, ErrInvalidPhone
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	exts := make([]string, len(files))
	for i, fh := range files {
		ext, err := sniff(fh)
		if err != nil {
			return nil, err
		}
		exts[i] = ext
	}

	phoneDir := filepath.Join(s.dir, phone)
	if err := os.MkdirAll(phoneDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	now := s.now()
	receipts := make([]model.Receipt, 0, len(files))
	for i, fh := range files {
		name := fmt.Sprintf("%d_%d%s", now.UnixMilli(), i, exts[i])
		path := filepath.Join(phoneDir, name)
		if err := writeUpload(fh, path); err != nil {
			os.Remove(path)
			for _, r := range receipts {
				os.Remove(filepath.Join(phoneDir, r.Name))
			}
			return nil, err
		}
		receipts = append(receipts, model.Receipt{Name: name, URL: receiptURL(phone, name), Size: fh.Size, UploadedAt: now})
	}

	s.log.Info("receipts uploaded", "phone", phone, "count", len(receipts))
	return receipts, nil
}

// List returns the stored receipts for phone, newest first.
func (s *receiptService) List(ctx context.Context, phone string) ([]model.Receipt, error) {
	if !utils.IsValidPhone(phone) {
		return nil, ErrInvalidPhone
	}
	entries, err := os.ReadDir(filepath.Join(s.dir, phone))
	if os.IsNotExist(err) {
		return []model.Receipt{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read receipts: %w", err)
	}

	receipts := make([]model.Receipt, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		receipts = append(receipts, model.Receipt{
			Name:       e.Name(),
			URL:        receiptURL(phone, e.Name()),
			Size:       info.Size(),
			UploadedAt: info.ModTime(),
		})
	}
	sort.Slice(receipts, func(i, j int) bool { return receipts[i].Name > receipts[j].Name })
	return receipts, nil
}

// Path resolves a stored receipt to its file on disk. Names that would
// escape the phone directory are treated as missing.
func (s *receiptService) Path(ctx context.Context, phone, name string) (string, error) {
	if !utils.IsValidPhone(phone) {
		return "", ErrInvalidPhone
	}
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", ErrReceiptNotFound
	}
	path := filepath.Join(s.dir, phone, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", ErrReceiptNotFound
	}
	return path, nil
}
