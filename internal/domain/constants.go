package domain

// Business validation constants
const (
	MinRating         = 1
	MaxRating         = 5
	MaxTechnicianRate = 5.0
	MaxLocationLength = 500
	MaxReviewLength   = 2000
)

// PlatformFeeRate доля платформы от базовой цены услуги
const PlatformFeeRate = 0.10

// Time format constants
const (
	DateTimeFormat = "2006-01-02T15:04:05.000Z07:00" // ISO 8601 (как в JS toISOString)
)

// AllStatuses список всех статусов бронирования
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusAccepted,
	StatusRejected,
	StatusCancelled,
	StatusInProgress,
	StatusCompleted,
}

// ActiveStatuses статусы, в которых бронирование ещё можно перенести или отменить
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusAccepted,
	StatusInProgress,
}
