package service

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"parkshare/internal/db"
	"parkshare/internal/entities"
	"parkshare/internal/logger"
	"parkshare/internal/metrics"
)

//go:embed templates/booking_email.html
var templateFS embed.FS

var bookingEmailTemplate = template.Must(template.ParseFS(templateFS, "templates/booking_email.html"))

type Messenger interface {
	SendEmail(toEmail, toName, subject, plainText, html string) error
	SendSMS(toNumber, body string) error
}

// BookingMessage is everything needed to tell a renter about a booking.
type BookingMessage struct {
	Profile db.Profile
	Booking db.Booking
	Space   db.Space
	Vehicle *db.Vehicle
	Status  string
}

type SenderService struct {
	messenger Messenger
	loc       *time.Location
	dispatch  func(func())
}

func NewSenderService(messenger Messenger, loc *time.Location) *SenderService {
	if loc == nil {
		loc = time.UTC
	}
	return &SenderService{
		messenger: messenger,
		loc:       loc,
		dispatch:  func(f func()) { go f() },
	}
}

// NotifyBooking sends the email and the SMS in the background. Failures are
// logged and counted, never returned.
func (s *SenderService) NotifyBooking(msg BookingMessage) {
	s.SendBookingEmail(msg)
	s.SendBookingSMS(msg)
}

func (s *SenderService) SendBookingEmail(msg BookingMessage) {
	if msg.Profile.Email == "" {
		return
	}
	data := s.emailData(msg)
	subject, plain := composeEmail(data)

	var html bytes.Buffer
	if err := bookingEmailTemplate.Execute(&html, data); err != nil {
		logger.WithError(err).Error("failed to render booking email", "booking_id", data.BookingID)
	}

	s.dispatch(func() {
		err := s.messenger.SendEmail(msg.Profile.Email, msg.Profile.FullName, subject, plain, html.String())
		record("email", data.BookingID, err)
	})
}

func (s *SenderService) SendBookingSMS(msg BookingMessage) {
	if msg.Profile.Phone == "" {
		return
	}
	body := composeSMS(msg.Profile.Language, msg.Space.Title, StatusTranslation(msg.Status, msg.Profile.Language),
		msg.Booking.StartAt.In(s.loc).Format("02/01 15:04"))
	bookingID := msg.Booking.ID.String()

	s.dispatch(func() {
		err := s.messenger.SendSMS(msg.Profile.Phone, body)
		record("sms", bookingID, err)
	})
}

func record(channel, bookingID string, err error) {
	if err != nil {
		logger.WithError(err).Warn("booking notification failed", "channel", channel, "booking_id", bookingID)
		metrics.RecordNotification(channel, "error")
		return
	}
	metrics.RecordNotification(channel, "sent")
}

func (s *SenderService) emailData(msg BookingMessage) entities.BookingEmailData {
	lang := msg.Profile.Language
	status := StatusTranslation(msg.Status, lang)
	data := entities.BookingEmailData{
		Language:           lang,
		UserName:           msg.Profile.FullName,
		SpaceTitle:         msg.Space.Title,
		BookingID:          msg.Booking.ID.String(),
		StartTimeFormatted: msg.Booking.StartAt.In(s.loc).Format("02 Jan 2006 15:04 MST"),
		EndTimeFormatted:   msg.Booking.EndAt.In(s.loc).Format("02 Jan 2006 15:04 MST"),
		TotalFormatted:     fmt.Sprintf("%.2f %s", msg.Booking.TotalPrice, "EUR"),
		Status:             status,
		CurrentYear:        time.Now().In(s.loc).Year(),
	}
	if msg.Vehicle != nil {
		data.VehiclePlate = msg.Vehicle.LicensePlate
	}
	switch lang {
	case "es":
		data.Heading = fmt.Sprintf("Tu reserva está %s", status)
	case "it":
		data.Heading = fmt.Sprintf("La tua prenotazione è %s", status)
	default:
		data.Heading = fmt.Sprintf("Your booking is %s", status)
	}
	return data
}

func composeEmail(d entities.BookingEmailData) (subject, plain string) {
	switch d.Language {
	case "es":
		subject = fmt.Sprintf("Tu reserva en ParkShare está %s", d.Status)
		plain = fmt.Sprintf(
			"Hola %s,\n\nTu reserva de %s está %s.\n\n"+
				"Reserva: %s\nVehículo: %s\nCheck-in: %s\nCheck-out: %s\nTotal: %s\n\n"+
				"Gracias por elegir ParkShare.",
			d.UserName, d.SpaceTitle, d.Status, d.BookingID, d.VehiclePlate,
			d.StartTimeFormatted, d.EndTimeFormatted, d.TotalFormatted,
		)
	case "it":
		subject = fmt.Sprintf("La tua prenotazione ParkShare è %s", d.Status)
		plain = fmt.Sprintf(
			"Ciao %s,\n\nLa tua prenotazione di %s è %s.\n\n"+
				"Prenotazione: %s\nVeicolo: %s\nCheck-in: %s\nCheck-out: %s\nTotale: %s\n\n"+
				"Grazie per aver scelto ParkShare.",
			d.UserName, d.SpaceTitle, d.Status, d.BookingID, d.VehiclePlate,
			d.StartTimeFormatted, d.EndTimeFormatted, d.TotalFormatted,
		)
	default:
		subject = fmt.Sprintf("Your ParkShare booking is %s", d.Status)
		plain = fmt.Sprintf(
			"Hello %s,\n\nYour booking of %s is %s.\n\n"+
				"Booking: %s\nVehicle: %s\nCheck-in: %s\nCheck-out: %s\nTotal: %s\n\n"+
				"Thank you for choosing ParkShare.",
			d.UserName, d.SpaceTitle, d.Status, d.BookingID, d.VehiclePlate,
			d.StartTimeFormatted, d.EndTimeFormatted, d.TotalFormatted,
		)
	}
	return subject, plain
}

func composeSMS(lang, spaceTitle, status, checkIn string) string {
	switch lang {
	case "es":
		return fmt.Sprintf("ParkShare: ¡Tu reserva de %s está %s!\nCheck-in: %s.\nMás detalles en tu correo.", spaceTitle, status, checkIn)
	case "it":
		return fmt.Sprintf("ParkShare: La tua prenotazione di %s è %s!\nCheck-in: %s.\nAltri dettagli nella tua email.", spaceTitle, status, checkIn)
	default:
		return fmt.Sprintf("ParkShare: Your booking of %s is %s!\nCheck-in: %s.\nMore details in your email.", spaceTitle, status, checkIn)
	}
}

// StatusTranslation renders a booking status in the renter's language.
// Unknown languages and statuses are returned unchanged.
func StatusTranslation(status, lang string) string {
	switch lang {
	case "es":
		switch status {
		case "pending":
			return "pendiente"
		case "confirmed":
			return "confirmada"
		case "active":
			return "activa"
		case "finished":
			return "finalizada"
		case "canceled", "cancelled":
			return "cancelada"
		}
	case "it":
		switch status {
		case "pending":
			return "in attesa"
		case "confirmed":
			return "confermata"
		case "active":
			return "attiva"
		case "finished":
			return "finita"
		case "canceled", "cancelled":
			return "annullata"
		}
	}
	return status
}
