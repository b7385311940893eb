package service

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GenerateApplicationQR renders a PNG linking drivers to the sponsor's application form.
	GenerateApplicationQR(sponsorID string) ([]byte, error)

	// ParseApplicationQR returns the sponsor ID encoded in QR payload data.
	ParseApplicationQR(qrData string) (string, error)
}
