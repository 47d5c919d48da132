package receipt

//go:generate go run go.uber.org/mock/mockgen -source=./receipt.go -destination=../mocks/receipt_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"voyage/config"
	"voyage/infras/s3"
	"voyage/internal/domains/payment/model"
	"voyage/shared/constant"
)

const defaultDirectory = "receipts"

// Archiver stores a copy of every confirmed payment for support and disputes.
type Archiver interface {
	Archive(ctx context.Context, receipt model.Receipt) (url string, err error)
}

type s3Archiver struct {
	storage   s3.S3
	directory string
}

func New(cfg *config.Config, storage s3.S3) Archiver {
	directory := cfg.Payment.ReceiptDirectory
	if directory == constant.Empty {
		directory = defaultDirectory
	}

	return &s3Archiver{
		storage:   storage,
		directory: directory,
	}
}

func FileName(receipt model.Receipt) string {
	return fmt.Sprintf("%s-%s.json", receipt.BookingID, receipt.PaymentReference)
}

func (a *s3Archiver) Archive(ctx context.Context, receipt model.Receipt) (string, error) {
	data, err := json.Marshal(receipt)
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to encode receipt: %w", err)
	}

	url, err := a.storage.UploadFileBytes(ctx, constant.Empty, a.directory, FileName(receipt), constant.ContentTypeJSON, data)
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to archive receipt: %w", err)
	}

	return url, nil
}
