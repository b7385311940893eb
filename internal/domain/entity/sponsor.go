package entity

// Sponsor is a trucking company that funds a driver incentive program.
type Sponsor struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	PointRatio  float64  `json:"pointRatio"` // Currency value of one point; always positive.
	PointsFloor *int     `json:"pointsFloor,omitempty"`
	Rules       []string `json:"rules,omitempty"`
}

// Floor returns the minimum balance a deduction may leave, defaulting to zero.
func (s *Sponsor) Floor() int {
	if s == nil || s.PointsFloor == nil {
		return 0
	}

	return *s.PointsFloor
}
