package mailbox

import "lilmail/models"

// SeedMessages returns the fixed collection every new session starts with
func SeedMessages() []models.Message {
	return []models.Message{
		{
			ID:      1,
			From:    "maria.gonzalez@ejemplo.com",
			Subject: "Reunión de equipo - Viernes 2pm",
			Preview: "Hola, quería confirmar la reunión del viernes...",
			Body:    "Hola,\n\nQuería confirmar la reunión del viernes a las 2pm. ¿Podrías confirmar tu asistencia?\n\nGracias,\nMaría",
			Date:    "10:30 AM",
		},
		{
			ID:      2,
			From:    "juan.perez@empresa.com",
			Subject: "Proyecto Q4 - Actualización",
			Preview: "Adjunto el informe del proyecto del cuarto trimestre...",
			Body:    "Estimado equipo,\n\nAdjunto el informe del proyecto del cuarto trimestre. Por favor revisen los documentos adjuntos.\n\nSaludos,\nJuan Pérez",
			Date:    "Ayer",
			Read:    true,
			Starred: true,
		},
		{
			ID:      3,
			From:    "soporte@servicio.com",
			Subject: "Tu solicitud #12345 ha sido actualizada",
			Preview: "Hemos actualizado el estado de tu solicitud...",
			Body:    "Estimado cliente,\n\nHemos actualizado el estado de tu solicitud #12345. Nuestro equipo está trabajando en resolver tu problema.\n\nAtentamente,\nEquipo de Soporte",
			Date:    "15 Ene",
			Read:    true,
		},
		{
			ID:      4,
			From:    "newsletter@noticias.com",
			Subject: "Resumen semanal de noticias",
			Preview: "Las noticias más importantes de la semana...",
			Body:    "Bienvenido al resumen semanal,\n\nAquí están las noticias más importantes de esta semana.\n\nGracias por suscribirte.",
			Date:    "14 Ene",
		},
	}
}
