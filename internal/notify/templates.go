package notify

import (
	"fmt"
	"time"
)

// Notification types recorded in the delivery ledger.
const (
	TypeConfirmationRequest = "booking_confirmation_request"
	TypeReminder            = "reminder"
	TypeReplyConfirmed      = "reply_confirmed"
	TypeReplyCancelled      = "reply_cancelled"
)

func when(start time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return start.In(loc).Format("02/01/2006 às 15:04")
}

func ConfirmationRequest(clientName, providerName string, start time.Time, loc *time.Location) string {
	return fmt.Sprintf(
		"Olá %s! Seu horário com %s está marcado para %s. Responda SIM para confirmar ou CANCELAR para desmarcar.",
		clientName, providerName, when(start, loc),
	)
}

func Reminder(clientName, providerName string, start time.Time, loc *time.Location) string {
	return fmt.Sprintf(
		"Lembrete: %s, você tem horário com %s em %s. Responda SIM para confirmar ou CANCELAR para desmarcar.",
		clientName, providerName, when(start, loc),
	)
}

func ReplyConfirmed(start time.Time, loc *time.Location) string {
	return fmt.Sprintf("Obrigado! Seu horário de %s está confirmado.", when(start, loc))
}

func ReplyCancelled(start time.Time, loc *time.Location) string {
	return fmt.Sprintf("Seu horário de %s foi cancelado.", when(start, loc))
}

func ReplyAlreadyConfirmed(start time.Time, loc *time.Location) string {
	return fmt.Sprintf("Seu horário de %s já estava confirmado.", when(start, loc))
}

const (
	ReplyUnknown       = "Não entendi. Responda SIM para confirmar ou CANCELAR para desmarcar seu horário."
	ReplyNoAppointment = "Não encontramos nenhum horário ativo para este número."
	ReplyNothingToDo   = "Seu horário não pode mais ser alterado por mensagem."
)
