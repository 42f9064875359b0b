package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	service "escolinha_backend/internals/features/finance/gateway/service"
)

type WebhookController struct {
	Store service.ReconcileStore
}

func NewWebhookController(store service.ReconcileStore) *WebhookController {
	return &WebhookController{Store: store}
}

/* ======================= WEBHOOK ASAAS ======================= */
// POST /webhooks/asaas
// Sempre responde 200 para condições "não se aplica" (evento irrelevante,
// cobrança desconhecida, parcela já paga); 5xx somente em falha interna,
// para o gateway reentregar.
func (h *WebhookController) HandleAsaas(c *fiber.Ctx) error {
	var ev service.WebhookEvent
	if err := c.BodyParser(&ev); err != nil {
		log.Println("[WARN] Webhook com payload ilegível:", err)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "evento ignorado: payload inválido"})
	}

	result, err := service.Reconcile(c.UserContext(), h.Store, ev)
	if err != nil {
		log.Println("[ERROR] Falha ao reconciliar webhook:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	log.Printf("[INFO] Webhook %s → %s (%s)", ev.Event, result.Outcome, result.Message)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": result.Message})
}
