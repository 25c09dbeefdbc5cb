package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/agendlyapp/booking-platform/internal/httperr"
)

// user-facing messages per business code
var businessMessages = map[string]string{
	httperr.CodeEmptyServiceSelection: "Selecione ao menos um serviço.",
	httperr.CodeInvalidTimeFormat:     "Horário inválido.",
	httperr.CodeInvalidDate:           "Data inválida.",
	httperr.CodeInvalidDuration:       "Duração inválida.",
	httperr.CodeServiceNotFound:       "Serviço não encontrado.",
	httperr.CodeProfessionalNotFound:  "Profissional não encontrado.",
	httperr.CodeAppointmentNotFound:   "Agendamento não encontrado.",
	httperr.CodeTenantNotFound:        "Estabelecimento não encontrado.",
	httperr.CodeSlotUnavailable:       "Este horário acabou de ser reservado.",
	httperr.CodeOutsideWorkingHours:   "Fora do horário de atendimento.",
	httperr.CodeTooSoon:               "Horário muito próximo, escolha outro.",
	httperr.CodeInvalidState:          "O agendamento não permite esta operação.",
	httperr.CodeInvalidWorkingHours:   "Horário de atendimento mal configurado.",
}

// writeBusinessOr500 translates business errors to their mapped status with a
// user-facing message; everything else becomes the given 500.
func writeBusinessOr500(c *gin.Context, err error, fallbackCode, fallbackMsg string) {
	code := httperr.BusinessCode(err)
	if code == "" {
		httperr.Internal(c, fallbackCode, fallbackMsg)
		return
	}

	msg, ok := businessMessages[code]
	if !ok {
		msg = "Não foi possível concluir a operação."
	}
	httperr.Write(c, httperr.Status(code), code, msg)
}
