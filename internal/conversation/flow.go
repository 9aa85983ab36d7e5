package conversation

import "fmt"

// Links are the URLs substituted into reply templates.
type Links struct {
	Website               string
	ContactPage           string
	HelpCenter            string
	OnDemandBrochure      string
	WeightProgramBrochure string
	PaymentTutorial       string
	DevicesHelp           string
	MyFitnessPalSync      string
	AppDemoVideo          string
	ReportIssue           string
}

const mainMenuText = `¡Hola! Gracias por comunicarte con Coach D. method.

Estamos listos para ayudarte en tu camino hacia el bienestar. Por favor, selecciona una opción del menú principal para comenzar.

**Menú Principal**

1. Información sobre planes y programas
2. Ayuda con pagos
3. Soporte técnico (Aplicación, cuenta o dispositivos)
4. Otros enlaces (Contacto, Ayuda general)

*Por favor, responde con el número de tu opción (1, 2, 3, o 4)*`

// ApologyPrefix opens the reply sent when a message could not be processed.
const ApologyPrefix = "⚠️ Lo siento, ha ocurrido un error. Volviendo al menú principal.\n\n"

const (
	backToMenu = "Para volver al menú principal, escribe *menú* o cualquier mensaje."
	handOff    = "⏳ *Transferencia a humano en proceso...*\n\nMientras esperas, puedes escribir cualquier mensaje para volver al menú principal."
)

// MainMenuText is the main menu greeting, also used as its reprompt.
func MainMenuText() string { return mainMenuText }

// DefaultFlow builds the full menu table with the given links.
func DefaultFlow(links Links) Flow {
	return Flow{
		StateMainMenu: &Menu{
			State: StateMainMenu,
			Options: []Option{
				{Code: "1", Next: StatePlansInfo, Reply: `¡Excelente! Para darte la información correcta, ¿ya has revisado nuestros folletos (brochures) informativos?

*1.* No, aún no los he visto
*2.* Sí, pero tengo más preguntas

*Responde con 1 o 2*`},
				{Code: "2", Next: StatePaymentHelp, Reply: `Entendido. Para ayudarte mejor con el proceso de pago, ¿has podido ver nuestro video tutorial sobre cómo completarlo?

*1.* No he visto el tutorial
*2.* Ya vi el tutorial, pero sigo con dudas

*Responde con 1 o 2*`},
				{Code: "3", Next: StateTechSupport, Reply: `Estamos para ayudarte con la parte técnica. Por favor, indícanos qué tipo de asistencia necesitas.

*1.* Ayuda conectando dispositivos
*2.* Ayuda sincronizando MyFitnessPal
*3.* Ayuda navegando la aplicación
*4.* Problemas para acceder a mi cuenta
*5.* Reportar un inconveniente / error

*Responde con el número de tu opción (1-5)*`},
				{Code: "4", Next: StateMainMenu, Reply: fmt.Sprintf(`Aquí tienes nuestros enlaces de interés:

* Pagina web: %s
* Página de Contacto: %s
* Centro de Ayuda: %s

%s`, links.Website, links.ContactPage, links.HelpCenter, backToMenu)},
			},
			Reprompt: mainMenuText,
		},
		StatePlansInfo: &Menu{
			State: StatePlansInfo,
			Options: []Option{
				{Code: "1", Next: StateMainMenu, Reply: fmt.Sprintf(`Entendido. Aquí tienes los detalles de nuestros servicios principales para que puedas revisarlos:

* Plan On-Demand: %s
* Programa Intensivo de Control de Peso: %s

Tómate tu tiempo para leerlos. Si tienes dudas después, simplemente escribe "Ayuda".

%s`, links.OnDemandBrochure, links.WeightProgramBrochure, backToMenu)},
				{Code: "2", Next: StateMainMenu, Reply: "Perfecto, por favor espera un momento y un asesor te atenderá para resolver todas tus dudas. \n\n" + handOff},
			},
			Reprompt: `Por favor responde con:
*1.* No, aún no los he visto
*2.* Sí, pero tengo más preguntas`,
		},
		StatePaymentHelp: &Menu{
			State: StatePaymentHelp,
			Options: []Option{
				{Code: "1", Next: StateMainMenu, Reply: fmt.Sprintf("¡No hay problema! Puedes ver el tutorial completo y realizar tu pago de forma segura en este enlace: %s\n\n%s", links.PaymentTutorial, backToMenu)},
				{Code: "2", Next: StateMainMenu, Reply: "Comprendo. Por favor espera un momento y un miembro del equipo te asistirá con el pago.\n\n" + handOff},
			},
			Reprompt: `Por favor responde con:
*1.* No he visto el tutorial
*2.* Ya vi el tutorial, pero sigo con dudas`,
		},
		StateTechSupport: &Menu{
			State: StateTechSupport,
			Options: []Option{
				{Code: "1", Next: StateMainMenu, Reply: fmt.Sprintf("Puedes encontrar ayuda para conectar dispositivos en nuestro artículo de ayuda: %s\n\n%s", links.DevicesHelp, backToMenu)},
				{Code: "2", Next: StateMainMenu, Reply: fmt.Sprintf("Aquí tienes la guía para sincronizar MyFitnessPal: %s\n\n%s", links.MyFitnessPalSync, backToMenu)},
				{Code: "3", Next: StateAppNavigation, Reply: `Perfecto. Tenemos un video de demostración que explica cómo usar todas las funciones de la aplicación. ¿Ya lo has visto?

*1.* No he visto el video
*2.* Sí, pero necesito más ayuda

*Responde con 1 o 2*`},
				{Code: "4", Next: StateMainMenu, Reply: "Para problemas de acceso a tu cuenta, un agente te asistirá personalmente.\n\n" + handOff},
				{Code: "5", Next: StateMainMenu, Reply: fmt.Sprintf("Para reportar un inconveniente o error, por favor visita: %s\n\n%s", links.ReportIssue, backToMenu)},
			},
			Reprompt: `Por favor responde con el número de tu opción (1-5):
*1.* Ayuda conectando dispositivos
*2.* Ayuda sincronizando MyFitnessPal
*3.* Ayuda navegando la aplicación
*4.* Problemas para acceder a mi cuenta
*5.* Reportar un inconveniente / error`,
		},
		StateAppNavigation: &Menu{
			State: StateAppNavigation,
			Options: []Option{
				{Code: "1", Next: StateMainMenu, Reply: fmt.Sprintf(`Aquí tienes el video de demostración de la aplicación: %s

Después de verlo, si tienes más preguntas, escribe "Ayuda" para hablar con un agente.

%s`, links.AppDemoVideo, backToMenu)},
				{Code: "2", Next: StateMainMenu, Reply: "Entendido. Un especialista te ayudará con la navegación de la aplicación.\n\n" + handOff},
			},
			Reprompt: `Por favor responde con:
*1.* No he visto el video
*2.* Sí, pero necesito más ayuda`,
		},
	}
}
