package i18n

var messages = map[string]map[string]string{
	LocaleES: {
		"error.bad_request":              "Solicitud inválida",
		"error.unauthorized":             "Debes iniciar sesión para continuar",
		"error.auth_header_invalid":      "Cabecera de autorización inválida",
		"error.not_found":                "Recurso no encontrado",
		"error.internal_error":           "Error interno del servidor",
		"error.too_many_requests":        "Demasiadas solicitudes, inténtalo más tarde",
		"error.rate_limited":             "Demasiadas solicitudes, inténtalo de nuevo en %d segundos",
		"error.rate_limit_unavailable":   "El control de frecuencia no está disponible",
		"error.chat_rate_limited":        "Has enviado muchos mensajes, espera %d segundos",
		"error.product_not_found":        "Producto no encontrado",
		"error.content_unavailable":      "No se pudo cargar el contenido",
		"error.cart_empty":               "Tu carrito está vacío",
		"error.cart_unavailable":         "No se pudo abrir el carrito",
		"error.shipping_invalid":         "Completa los datos de envío obligatorios",
		"error.order_rejected":           "No se pudo crear el pedido: %s",
		"error.order_failed":             "No se pudo conectar con el servicio de pedidos",
		"error.profile_unavailable":      "No se pudo cargar tu perfil",
		"error.chat_disabled":            "El asistente no está disponible",
		"error.chat_failed":              "Lo siento, hubo un error al procesar tu mensaje.",
		"error.chat_message_required":    "Escribe un mensaje",
		"error.cart_storage_unavailable": "El carrito no está disponible en este momento, inténtalo de nuevo",
		"error.post_not_found":           "Publicación no encontrada",
		"error.payment_status_invalid":   "Estado de pago no válido",
		"cart.panel_invalid_action":      "Acción de panel no válida",
	},
	LocaleEN: {
		"error.bad_request":              "Invalid request",
		"error.unauthorized":             "Please sign in to continue",
		"error.auth_header_invalid":      "Invalid authorization header",
		"error.not_found":                "Resource not found",
		"error.internal_error":           "Internal server error",
		"error.too_many_requests":        "Too many requests, please try again later",
		"error.rate_limited":             "Too many requests, please retry in %d seconds",
		"error.rate_limit_unavailable":   "Rate limiting is unavailable",
		"error.chat_rate_limited":        "You sent too many messages, please wait %d seconds",
		"error.product_not_found":        "Product not found",
		"error.content_unavailable":      "Content could not be loaded",
		"error.cart_empty":               "Your cart is empty",
		"error.cart_unavailable":         "The cart could not be opened",
		"error.shipping_invalid":         "Please fill in the required shipping fields",
		"error.order_rejected":           "The order could not be created: %s",
		"error.order_failed":             "Could not reach the order service",
		"error.profile_unavailable":      "Your profile could not be loaded",
		"error.chat_disabled":            "The assistant is unavailable",
		"error.chat_failed":              "Sorry, something went wrong while processing your message.",
		"error.chat_message_required":    "Please type a message",
		"error.cart_storage_unavailable": "The cart is temporarily unavailable, please try again",
		"error.post_not_found":           "Post not found",
		"error.payment_status_invalid":   "Invalid payment status",
		"cart.panel_invalid_action":      "Invalid panel action",
	},
}
