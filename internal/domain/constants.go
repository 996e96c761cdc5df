package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes = 60
	DefaultInitialStatus       = StatusPending
	DefaultBookingHorizonDays  = 0 // 0 = unlimited
)

// Business validation constants
const (
	MaxCustomerNameLength  = 100
	MinPhoneDigits         = 6
	MaxPhoneLength         = 20
	MaxNoteLength          = 500
	MaxServicesPerBooking  = 10
	MaxServiceNameLength   = 100
	MinServiceDuration     = 5
	MaxServiceDuration     = 480 // 8 hours
	MaxClosureReasonLength = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
