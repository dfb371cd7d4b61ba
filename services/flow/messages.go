package flow

import (
	"fmt"
	"strings"
)

// Customer-facing copy. The conversation runs in Spanish.
const (
	msgGenericError = "Perdona, ha habido un problema. ¿Puedes repetírmelo?"
	msgRetryLater   = "No hemos podido completar la reserva ahora mismo. Inténtalo de nuevo en unos minutos, por favor."

	msgEscalationIntro = "Para este tipo de peticiones es mejor hablar directamente con el encargado. Te paso su contacto 👇"
	msgSameDayIntro    = "Para reservas de hoy mismo llámanos directamente y lo vemos al momento. Te paso el contacto 👇"

	msgAskDate      = "¿Para qué día queréis la reserva? (por ejemplo 21/09/2026)"
	msgAskTime      = "¿A qué hora os viene bien? Servimos comidas a las 13:30, 14:00, 14:30 y 15:00."
	msgAskPartySize = "¿Cuántos seréis?"
	msgAskName      = "¿A nombre de quién pongo la reserva?"
	msgInvalidDate  = "Esa fecha no me cuadra. ¿Me la puedes dar como día/mes/año, por ejemplo 21/09/2026?"
	msgInvalidTime  = "Esa hora no la tenemos disponible. Servimos comidas a las 13:30, 14:00, 14:30 y 15:00. ¿Cuál os viene bien?"

	msgAskHighChairs   = "¿Necesitáis tronas para los peques?"
	msgAskHighChairQty = "¿Cuántas tronas necesitáis?"
	msgAskStrollers    = "¿Traéis carrito de bebé?"
	msgAskStrollerQty  = "¿Cuántos carritos traéis?"

	msgAskRice         = "¿Queréis encargar arroz? Hay que pedirlo por adelantado (mínimo 2 raciones)."
	msgAskRiceServings = "¿Cuántas raciones de %s queréis? (mínimo 2)"
	msgRiceMinServings = "El arroz se prepara a partir de 2 raciones. ¿Cuántas pongo?"
	msgRiceNoMatch     = "No he encontrado ese arroz en la carta. Tenemos: %s. ¿Cuál os apetece?"

	msgClosedDay      = "Ese día estamos cerrados 😔."
	msgDailyFull      = "Ese día ya estamos completos 😔."
	msgHourFull       = "A esa hora no nos quedan mesas para %d personas 😔."
	msgSuggestDate    = " El próximo día disponible es el %s. ¿Os viene bien?"
	msgSuggestTimes   = " Ese mismo día tenemos hueco a las %s. ¿Alguna os encaja?"
	msgBookingCreated = "¡Reserva confirmada! ✅\n📅 %s a las %s\n👥 %d personas\n📝 A nombre de %s%s\n¡Os esperamos!"

	msgNoBookingsFound = "No encuentro ninguna reserva activa con este número de teléfono."
	msgWelcome         = "¡Hola! Soy el asistente de %s. Puedo ayudarte a reservar mesa, o a modificar o anular una reserva. ¿Qué necesitas?"
)

func riceSummary(name string, servings int) string {
	if name == "" {
		return ""
	}
	return fmt.Sprintf("\n🥘 %s (%d raciones)", name, servings)
}

// numberedList renders options as "1. Foo\n2. Bar".
func numberedList(options []string) string {
	var b strings.Builder
	for i, opt := range options {
		fmt.Fprintf(&b, "%d. %s\n", i+1, opt)
	}
	return strings.TrimRight(b.String(), "\n")
}

// joinTimes renders time suggestions as "13:30, 14:00 o 14:30".
func joinTimes(times []string) string {
	switch len(times) {
	case 0:
		return ""
	case 1:
		return times[0]
	default:
		return strings.Join(times[:len(times)-1], ", ") + " o " + times[len(times)-1]
	}
}
