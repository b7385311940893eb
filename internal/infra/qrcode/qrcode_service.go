package qrcode

import (
	"encoding/json"
	"net/url"
	"strings"

	"rewards/config"
	"rewards/internal/domain/service"
	"rewards/internal/errors"

	"github.com/skip2/go-qrcode"
)

const (
	qrTypeApplication = "driver_application"
	defaultSize       = 256
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	baseURL              string
}

// QRCodeData is the JSON payload encoded in an application QR code.
type QRCodeData struct {
	Type      string `json:"type"`
	SponsorID string `json:"sponsor_id"`
	URL       string `json:"url,omitempty"`
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel, baseURL string) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch strings.ToUpper(errorCorrectionLevel) {
	case "L":
		level = qrcode.Low
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}
	if size <= 0 {
		size = defaultSize
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
		baseURL:              strings.TrimRight(baseURL, "/"),
	}
}

// NewFromConfig is the Fx constructor.
func NewFromConfig(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		return NewQRCodeService(defaultSize, "M", "")
	}

	return NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel, cfg.QRCode.BaseURL)
}

// GenerateApplicationQR renders a PNG pointing drivers at the sponsor's application form.
func (s *qrcodeService) GenerateApplicationQR(sponsorID string) ([]byte, error) {
	if strings.TrimSpace(sponsorID) == "" {
		return nil, errors.New("sponsor ID is required")
	}

	data := QRCodeData{
		Type:      qrTypeApplication,
		SponsorID: sponsorID,
	}
	if s.baseURL != "" {
		data.URL = s.baseURL + "?sponsor=" + url.QueryEscape(sponsorID)
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal QR code data")
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParseApplicationQR returns the sponsor ID from a scanned payload.
func (s *qrcodeService) ParseApplicationQR(qrData string) (string, error) {
	var data QRCodeData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return "", errors.Wrap(err, "failed to unmarshal QR code data")
	}

	if data.Type != qrTypeApplication {
		return "", errors.Errorf("invalid QR code type: %s", data.Type)
	}
	if data.SponsorID == "" {
		return "", errors.New("QR code carries no sponsor ID")
	}

	return data.SponsorID, nil
}
