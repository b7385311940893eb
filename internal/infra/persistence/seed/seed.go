// Package seed holds the fixture datasets the mock and simulated-remote stores start from.
// Every call returns fresh values so callers may mutate them freely.
package seed

import (
	"time"

	"rewards/internal/domain/entity"
	"rewards/internal/util"
)

// Dataset is one complete set of collections.
type Dataset struct {
	Users         []*entity.User
	Sponsors      []*entity.Sponsor
	Products      []*entity.Product
	Applications  []*entity.Application
	Transactions  []*entity.Transaction
	AuditLogs     []*entity.AuditLog
	Messages      []*entity.Message
	Notifications []*entity.Notification
}

// Well-known mock identifiers.
const (
	MockSponsorSwift   = "sp-swift"
	MockSponsorPrairie = "sp-prairie"
	MockDriverJane     = "u-driver-jane"
	MockDriverMarco    = "u-driver-marco"
	MockApplicantKim   = "u-applicant-kim"
	MockSponsorStaff   = "u-sponsor-swift"
	MockAdmin          = "u-admin"
	MockPurchaseTx     = "tx-jane-purchase"
	MockAdminEmail     = "admin@rewards.local"
	MockDriverEmail    = "jane.driver@example.com"
)

// Well-known remote identifiers.
const (
	RemoteSponsorInterstate = "rsp-interstate"
	RemoteDriverOmar        = "ru-driver-omar"
	RemoteSponsorStaff      = "ru-sponsor-interstate"
	RemoteAdmin             = "ru-admin"
)

var epoch = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return epoch.AddDate(0, 0, n)
}

// Mock returns the fixture dataset for the local mock store.
func Mock() *Dataset {
	purchasePending := entity.RefundPending

	return &Dataset{
		Sponsors: []*entity.Sponsor{
			{
				ID:          MockSponsorSwift,
				Name:        "Swift Haul Logistics",
				PointRatio:  0.01,
				PointsFloor: util.Ptr(0),
				Rules: []string{
					"100 points for every 1,000 accident-free miles",
					"250 points for on-time delivery streaks of 10 loads",
				},
			},
			{
				ID:          MockSponsorPrairie,
				Name:        "Prairie Freight Co.",
				PointRatio:  0.02,
				PointsFloor: util.Ptr(100),
				Rules:       []string{"50 points per clean roadside inspection"},
			},
		},
		Users: []*entity.User{
			{
				ID:          MockDriverJane,
				Username:    "jdriver",
				Role:        entity.RoleDriver,
				DisplayName: "Jane Driver",
				Email:       MockDriverEmail,
				Phone:       "555-0101",
				Address:     "12 Depot Rd, Amarillo, TX",
				SponsorID:   MockSponsorSwift,
				Points:      util.Ptr(5400),
				Preferences: &entity.Preferences{PointsAlerts: true, OrderAlerts: true},
				Active:      true,
				CreatedAt:   day(-90),
			},
			{
				ID:          MockDriverMarco,
				Username:    "mrivera",
				Role:        entity.RoleDriver,
				DisplayName: "Marco Rivera",
				Email:       "marco.rivera@example.com",
				SponsorID:   MockSponsorPrairie,
				Points:      util.Ptr(1200),
				Preferences: &entity.Preferences{PointsAlerts: false, OrderAlerts: true},
				Active:      true,
				CreatedAt:   day(-60),
			},
			{
				ID:          MockApplicantKim,
				Username:    "kchen",
				Role:        entity.RoleDriver,
				DisplayName: "Kim Chen",
				Email:       "kim.chen@example.com",
				Active:      true,
				CreatedAt:   day(-5),
			},
			{
				ID:          MockSponsorStaff,
				Username:    "swiftops",
				Role:        entity.RoleSponsor,
				DisplayName: "Swift Haul Operations",
				Email:       "ops@swifthaul.example.com",
				SponsorID:   MockSponsorSwift,
				Active:      true,
				CreatedAt:   day(-120),
			},
			{
				ID:          MockAdmin,
				Username:    "admin",
				Role:        entity.RoleAdmin,
				DisplayName: "Platform Admin",
				Email:       MockAdminEmail,
				Active:      true,
				CreatedAt:   day(-365),
			},
		},
		Products: []*entity.Product{
			{ID: "prod-thermos", Name: "Insulated Travel Thermos", Description: "Keeps coffee hot for 12 hours.", PricePoints: 800, Available: true, CreatedAt: day(-200)},
			{ID: "prod-headset", Name: "Noise-Cancelling Headset", Description: "Bluetooth headset for hands-free calls.", PricePoints: 4500, Available: true, CreatedAt: day(-30)},
			{ID: "prod-seat", Name: "Memory Foam Seat Cushion", Description: "Ergonomic cushion for long hauls.", PricePoints: 1500, Available: true, CreatedAt: day(-2)},
			{ID: "prod-cooler", Name: "12V Cab Cooler", Description: "Plug-in cooler for the sleeper cab.", PricePoints: 6000, Available: false, CreatedAt: day(-150)},
		},
		Applications: []*entity.Application{
			{
				ID:              "app-kim-swift",
				UserID:          MockApplicantKim,
				SponsorID:       MockSponsorSwift,
				ApplicantName:   "Kim Chen",
				ApplicantEmail:  "kim.chen@example.com",
				LicenseNumber:   "TX-CDL-448812",
				ExperienceYears: 4,
				Reason:          "Looking for a sponsor with long-haul routes.",
				Status:          entity.ApplicationPending,
				SubmittedAt:     day(-3),
			},
		},
		Transactions: []*entity.Transaction{
			{
				ID:           MockPurchaseTx,
				UserID:       MockDriverJane,
				Date:         day(-1),
				Amount:       -800,
				Reason:       "Purchase: Insulated Travel Thermos x1",
				SponsorID:    MockSponsorSwift,
				SponsorName:  "Swift Haul Logistics",
				ActorName:    "Jane Driver",
				Type:         entity.TransactionPurchase,
				RefundStatus: &purchasePending,
			},
			{
				ID:          "tx-jane-safety",
				UserID:      MockDriverJane,
				Date:        day(-7),
				Amount:      500,
				Reason:      "Accident-free month",
				SponsorID:   MockSponsorSwift,
				SponsorName: "Swift Haul Logistics",
				ActorName:   "Swift Haul Operations",
				Type:        entity.TransactionManual,
			},
			{
				ID:          "tx-jane-ontime",
				UserID:      MockDriverJane,
				Date:        day(-14),
				Amount:      250,
				Reason:      "On-time delivery streak",
				SponsorID:   MockSponsorSwift,
				SponsorName: "Swift Haul Logistics",
				Type:        entity.TransactionAutomated,
			},
			{
				ID:          "tx-marco-inspection",
				UserID:      MockDriverMarco,
				Date:        day(-10),
				Amount:      50,
				Reason:      "Clean roadside inspection",
				SponsorID:   MockSponsorPrairie,
				SponsorName: "Prairie Freight Co.",
				Type:        entity.TransactionAutomated,
			},
		},
		AuditLogs: []*entity.AuditLog{
			{ID: "log-1", Date: day(-7), Actor: "Swift Haul Operations", Target: "Jane Driver", Action: "Awarded 500 points", Category: entity.AuditCategoryPoints, Details: "Accident-free month"},
			{ID: "log-2", Date: day(-60), Actor: "Platform Admin", Target: "Prairie Freight Co.", Action: "Created sponsor", Category: entity.AuditCategorySponsor},
		},
		Messages: []*entity.Message{
			{ID: "msg-1", SenderID: MockSponsorStaff, ReceiverID: MockDriverJane, Body: "Great job on the Dallas run this week!", SentAt: day(-6)},
			{ID: "msg-2", SenderID: MockDriverJane, ReceiverID: MockSponsorStaff, Body: "Thanks! Traffic was light.", SentAt: day(-6).Add(time.Hour)},
			{
				ID:         "msg-3",
				SenderID:   MockDriverJane,
				ReceiverID: MockSponsorStaff,
				Body:       "Requesting a refund for my thermos order, it arrived damaged.",
				SentAt:     day(-1).Add(2 * time.Hour),
				RefundRequest: &entity.RefundRequest{
					TransactionID: MockPurchaseTx,
					Amount:        800,
					Reason:        "Arrived damaged",
				},
			},
		},
		Notifications: []*entity.Notification{
			{ID: "ntf-1", UserID: MockDriverJane, Title: "Points awarded", Body: "You received +500 pts: Accident-free month", CreatedAt: day(-7)},
			{ID: "ntf-2", UserID: MockDriverJane, Title: "New catalog item", Body: "Memory Foam Seat Cushion is now available.", CreatedAt: day(-2)},
		},
	}
}

// Remote returns the independent dataset served by the simulated remote store.
func Remote() *Dataset {
	return &Dataset{
		Sponsors: []*entity.Sponsor{
			{
				ID:          RemoteSponsorInterstate,
				Name:        "Interstate Carriers",
				PointRatio:  0.015,
				PointsFloor: util.Ptr(200),
				Rules:       []string{"75 points per fuel-efficiency bonus week"},
			},
		},
		Users: []*entity.User{
			{
				ID:          RemoteDriverOmar,
				Username:    "ofarouk",
				Role:        entity.RoleDriver,
				DisplayName: "Omar Farouk",
				Email:       "omar.farouk@example.com",
				SponsorID:   RemoteSponsorInterstate,
				Points:      util.Ptr(2500),
				Preferences: &entity.Preferences{PointsAlerts: true, OrderAlerts: true},
				Active:      true,
				CreatedAt:   day(-45),
			},
			{
				ID:          RemoteSponsorStaff,
				Username:    "interstateops",
				Role:        entity.RoleSponsor,
				DisplayName: "Interstate Dispatch",
				Email:       "dispatch@interstate.example.com",
				SponsorID:   RemoteSponsorInterstate,
				Active:      true,
				CreatedAt:   day(-200),
			},
			{
				ID:          RemoteAdmin,
				Username:    "admin",
				Role:        entity.RoleAdmin,
				DisplayName: "Platform Admin",
				Email:       MockAdminEmail,
				Active:      true,
				CreatedAt:   day(-365),
			},
		},
		Products: []*entity.Product{
			{ID: "rprod-gps", Name: "Truck GPS Navigator", Description: "7-inch GPS with truck routing.", PricePoints: 9000, Available: true, CreatedAt: day(-20)},
			{ID: "rprod-gloves", Name: "Insulated Work Gloves", Description: "Waterproof winter gloves.", PricePoints: 600, Available: true, CreatedAt: day(-90)},
		},
		Transactions: []*entity.Transaction{
			{
				ID:          "rtx-omar-fuel",
				UserID:      RemoteDriverOmar,
				Date:        day(-4),
				Amount:      75,
				Reason:      "Fuel-efficiency bonus week",
				SponsorID:   RemoteSponsorInterstate,
				SponsorName: "Interstate Carriers",
				Type:        entity.TransactionAutomated,
			},
		},
		AuditLogs: []*entity.AuditLog{
			{ID: "rlog-1", Date: day(-30), Actor: "Platform Admin", Target: "Interstate Carriers", Action: "Created sponsor", Category: entity.AuditCategorySponsor},
		},
		Notifications: []*entity.Notification{
			{ID: "rntf-1", UserID: RemoteDriverOmar, Title: "Welcome", Body: "Your Interstate Carriers rewards account is ready.", CreatedAt: day(-45)},
		},
	}
}
