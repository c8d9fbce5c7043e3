package projector

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/internal/service/bookings/models"
)

// Source откуда пришло уведомление
type Source string

const (
	SourceServer Source = "server"
	SourceLocal  Source = "local"
)

// Kind тип локального тоста
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Priority важность уведомления для отображения
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// DefaultToastTTL время жизни тоста по умолчанию
const DefaultToastTTL = 4 * time.Second

// Notice элемент ленты
type Notice struct {
	ID         string
	Source     Source
	Kind       Kind
	BookingID  string
	Status     domain.BookingStatus
	Title      string
	Message    string
	Icon       string
	TargetPath string
	Priority   Priority
	Timestamp  time.Time
	ExpiresAt  *time.Time
	Read       bool
}

// NoticeID идентификатор серверного уведомления: <bookingId>:<status>
func NoticeID(bookingID string, status domain.BookingStatus) string {
	return bookingID + ":" + string(status)
}

var statusIcons = map[domain.BookingStatus]string{
	domain.StatusPending:    "Calendar",
	domain.StatusAccepted:   "CheckCircle",
	domain.StatusRejected:   "XCircle",
	domain.StatusCancelled:  "Ban",
	domain.StatusInProgress: "Wrench",
	domain.StatusCompleted:  "Star",
}

// serverNotice строит уведомление по снимку с учётом роли получателя
func serverNotice(role domain.Role, b models.Booking, status domain.BookingStatus, at time.Time) Notice {
	n := Notice{
		ID:        NoticeID(b.ID, status),
		Source:    SourceServer,
		BookingID: b.ID,
		Status:    status,
		Icon:      statusIcons[status],
		Priority:  PriorityNormal,
		Timestamp: at,
	}

	switch role {
	case domain.RoleCustomer:
		n.Title, n.Message, n.TargetPath = customerText(b, status)
	case domain.RoleTechnician:
		n.Title, n.Message, n.TargetPath = technicianText(b, status)
	case domain.RoleAdmin:
		n.Title = "Booking " + statusLabel(status)
		n.Message = fmt.Sprintf("%s for %s", b.ServiceName, b.CustomerName)
		n.TargetPath = "/admin-dashboard"
		if status == domain.StatusPending && b.TechnicianID == nil {
			n.Title = "Booking Needs Technician"
			n.Priority = PriorityHigh
		}
	}

	if status.IsTerminal() && status != domain.StatusCompleted {
		n.Priority = PriorityLow
	}
	return n
}

func customerText(b models.Booking, status domain.BookingStatus) (title, message, path string) {
	path = "/customer-booking-history"
	switch status {
	case domain.StatusPending:
		return "Booking Received", fmt.Sprintf("Your %s request was received", b.ServiceName), "/booking-success/" + b.ID
	case domain.StatusAccepted:
		return "Booking Confirmed", fmt.Sprintf("%s accepted your %s booking", nameOr(b.TechnicianName, "A technician"), b.ServiceName), path
	case domain.StatusRejected:
		return "Booking Declined", fmt.Sprintf("Your %s booking was declined", b.ServiceName), path
	case domain.StatusCancelled:
		return "Booking Cancelled", fmt.Sprintf("Your %s booking was cancelled", b.ServiceName), path
	case domain.StatusInProgress:
		return "Service Started", fmt.Sprintf("%s is working on your %s", nameOr(b.TechnicianName, "Your technician"), b.ServiceName), path
	case domain.StatusCompleted:
		return "Service Completed", fmt.Sprintf("Your %s has been completed. Please rate your experience.", b.ServiceName), path
	}
	return "Booking Updated", b.ServiceName, path
}

func technicianText(b models.Booking, status domain.BookingStatus) (title, message, path string) {
	switch status {
	case domain.StatusPending:
		return "New Job Request", fmt.Sprintf("%s requested %s", b.CustomerName, b.ServiceName), "/technician-dashboard"
	case domain.StatusAccepted:
		return "Job Accepted", fmt.Sprintf("%s for %s", b.ServiceName, b.CustomerName), "/technician-active-job/" + b.ID
	case domain.StatusInProgress:
		return "Job In Progress", fmt.Sprintf("%s for %s", b.ServiceName, b.CustomerName), "/technician-active-job/" + b.ID
	case domain.StatusCompleted:
		return "Job Completed", fmt.Sprintf("You earned %.2f for %s", b.ServiceFee, b.ServiceName), "/technician-wallet"
	case domain.StatusRejected:
		return "Job Declined", fmt.Sprintf("%s for %s", b.ServiceName, b.CustomerName), "/technician-dashboard"
	case domain.StatusCancelled:
		return "Job Cancelled", fmt.Sprintf("%s cancelled %s", b.CustomerName, b.ServiceName), "/technician-dashboard"
	}
	return "Job Updated", b.ServiceName, "/technician-dashboard"
}

func statusLabel(status domain.BookingStatus) string {
	switch status {
	case domain.StatusInProgress:
		return "In Progress"
	case domain.StatusPending:
		return "Pending"
	case domain.StatusAccepted:
		return "Accepted"
	case domain.StatusRejected:
		return "Rejected"
	case domain.StatusCancelled:
		return "Cancelled"
	case domain.StatusCompleted:
		return "Completed"
	}
	return string(status)
}

func nameOr(name *string, fallback string) string {
	if name == nil || *name == "" {
		return fallback
	}
	return *name
}
