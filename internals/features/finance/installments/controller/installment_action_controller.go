package controller

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"escolinha_backend/internals/configs"
	dto "escolinha_backend/internals/features/finance/installments/dto"
	model "escolinha_backend/internals/features/finance/installments/model"
	service "escolinha_backend/internals/features/finance/installments/service"
	gatewayService "escolinha_backend/internals/features/finance/gateway/service"
	helper "escolinha_backend/internals/helpers"
)

// InstallmentActionController - todas as transições de estado de uma parcela.
// Toda mutação relê a parcela antes de responder: a tela sempre reflete o
// estado do servidor, nunca um patch otimista.
type InstallmentActionController struct {
	DB     *gorm.DB
	Config gatewayService.ConfigProvider

	// fábrica injetável do cliente de gateway (testes trocam por fake)
	GatewayFactory func(cfg gatewayService.GatewayConfig) gatewayService.AsaasAPI
}

func NewInstallmentActionController(db *gorm.DB, cfg gatewayService.ConfigProvider) *InstallmentActionController {
	return &InstallmentActionController{
		DB:     db,
		Config: cfg,
		GatewayFactory: func(cfg gatewayService.GatewayConfig) gatewayService.AsaasAPI {
			return gatewayService.NewAsaasClient(cfg, configs.AsaasBaseURL)
		},
	}
}

func requireConfirm(confirm bool) error {
	if !confirm {
		return fiber.NewError(fiber.StatusConflict, "Confirmação necessária para esta operação")
	}
	return nil
}

func requirePending(inst *model.InstallmentModel) error {
	if inst.InstallmentStatus != model.InstallmentStatusPending {
		return fiber.NewError(fiber.StatusConflict, "Parcela não está pendente")
	}
	return nil
}

// asaasGateway resolve a config e devolve o cliente. Provider errado ou
// chave ausente → erro 400.
func (h *InstallmentActionController) asaasGateway(ctx context.Context) (gatewayService.AsaasAPI, error) {
	cfg, err := h.Config.GatewayConfig(ctx)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Falha ao ler configuração do gateway")
	}
	if err := cfg.ValidateForAsaas(); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return h.GatewayFactory(cfg), nil
}

// linkedGateway resolve o cliente para uma parcela com cobrança viva no
// gateway. Provider manual devolve nil (a mutação fica só no banco); provider
// asaas com config incompleta é erro 400, nunca update local silencioso que
// deixaria a cobrança viva divergente.
func (h *InstallmentActionController) linkedGateway(ctx context.Context, inst *model.InstallmentModel) (gatewayService.AsaasAPI, error) {
	if !inst.IsGatewayLinked() {
		return nil, nil
	}
	cfg, err := h.Config.GatewayConfig(ctx)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Falha ao ler configuração do gateway")
	}
	if !cfg.IsAsaas() {
		return nil, nil
	}
	if err := cfg.ValidateForAsaas(); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return h.GatewayFactory(cfg), nil
}

// datesPatch monta o patch de datas. paid_at anda junto com o status: só
// parcela paga tem data de pagamento para corrigir.
func datesPatch(inst *model.InstallmentModel, req dto.UpdateDatesRequest) (map[string]interface{}, error) {
	patch := map[string]interface{}{}
	if req.DueDate != nil {
		patch["installment_due_date"] = *req.DueDate
	}
	if req.PaidAt != nil {
		if inst.InstallmentStatus != model.InstallmentStatusPaid {
			return nil, fiber.NewError(fiber.StatusConflict, "Data de pagamento só pode ser ajustada em parcela paga")
		}
		patch["installment_paid_at"] = *req.PaidAt
	}
	return patch, nil
}

func (h *InstallmentActionController) respondRefetched(c *fiber.Ctx, id string, message string) error {
	row, err := fetchInstallment(h.DB, id)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, message, dto.FromModel(*row))
}

/* ======================== INSTRUÇÕES DE PAGAMENTO ======================== */
// PATCH /api/a/finance/installments/:id/instructions
func (h *InstallmentActionController) SaveInstructions(c *fiber.Ctx) error {
	idStr := strings.TrimSpace(c.Params("id"))
	inst, err := fetchInstallment(h.DB, idStr)
	if err != nil {
		return err
	}

	var req dto.SaveInstructionsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload inválido")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	// merge: campo não enviado permanece como está
	meta := inst.Meta()
	if req.PixKey != nil {
		meta.PixKey = strings.TrimSpace(*req.PixKey)
	}
	if req.BoletoCode != nil {
		meta.BoletoCode = strings.TrimSpace(*req.BoletoCode)
	}
	if req.BoletoURL != nil {
		meta.BoletoURL = strings.TrimSpace(*req.BoletoURL)
	}
	if req.ManualObs != nil {
		meta.ManualObs = strings.TrimSpace(*req.ManualObs)
	}

	// guard de publicação: sem nenhuma forma de pagamento, publicar exige
	// confirmação explícita
	if req.ShouldPublish {
		preview := *inst
		if err := preview.SetMeta(meta); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "metadata inválido")
		}
		if !preview.HasPaymentMethod() && !req.Confirm {
			return fiber.NewError(fiber.StatusConflict,
				"Parcela sem forma de pagamento - confirme para publicar mesmo assim")
		}
	}

	metaJSON, err := model.MetadataValue(meta)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "metadata inválido")
	}
	patch := map[string]interface{}{
		"installment_metadata":   metaJSON,
		"installment_updated_at": time.Now(),
	}
	if req.ShouldPublish {
		patch["installment_is_published"] = true
	}

	if err := h.DB.Model(&model.InstallmentModel{}).
		Where("installment_id = ?", inst.InstallmentID).
		Updates(patch).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Falha ao salvar instruções de pagamento")
	}

	return h.respondRefetched(c, idStr, "Instruções de pagamento salvas")
}

/* ======================== PUBLICAR / DESPUBLICAR ======================== */
// PATCH /api/a/finance/installments/:id/publish
// Só parcela pendente alterna publicação: republicar uma cancelada a faria
// reaparecer para o responsável.
func (h *InstallmentActionController) TogglePublish(c *fiber.Ctx) error {
	idStr := strings.TrimSpace(c.Params("id"))
	inst, err := fetchInstallment(h.DB, idStr)
	if err != nil {
		return err
	}
	if err := requirePending(inst); err != nil {
		return err
	}

	var req dto.TogglePublishRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload inválido")
	}

	if err := h.DB.Model(&model.InstallmentModel{}).
		Where("installment_id = ?", inst.InstallmentID).
		Updates(map[string]interface{}{
			"installment_is_published": req.IsPublished,
			"installment_updated_at":   time.Now(),
		}).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Falha ao alterar publicação")
	}

	return h.respondRefetched(c, idStr, "Publicação atualizada")
}

/* ======================== BAIXA MANUAL ======================== */
// POST /api/a/finance/installments/:id/pay
// Operação puramente local - funciona com qualquer provider. Não concilia
// cobrança ativa no gateway.
func (h *InstallmentActionController) MarkPaid(c *fiber.Ctx) error {
	idStr := strings.TrimSpace(c.Params("id"))
	inst, err := fetchInstallment(h.DB, idStr)
	if err != nil {
		return err
	}
	if err := requirePending(inst); err != nil {
		return err
	}

	var req dto.MarkPaidRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload inválido")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := requireConfirm(req.Confirm); err != nil {
		return err
	}

	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	meta := inst.Meta()
	if req.ManualObs != nil && strings.TrimSpace(*req.ManualObs) != "" {
		if meta.ManualObs != "" {
			meta.ManualObs += "\n"
		}
		meta.ManualObs += strings.TrimSpace(*req.ManualObs)
	}
	metaJSON, err := model.MetadataValue(meta)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "metadata inválido")
	}

	if err := h.DB.Model(&model.InstallmentModel{}).
		Where("installment_id = ?", inst.InstallmentID).
		Updates(map[string]interface{}{
			"installment_status":         model.InstallmentStatusPaid,
			"installment_paid_at":        paidAt,
			"installment_payment_method": req.PaymentMethod,
			"installment_metadata":       metaJSON,
			"installment_updated_at":     time.Now(),
		}).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Falha ao dar baixa na parcela")
	}

	return h.respondRefetched(c, idStr, "Parcela marcada como paga")
}

/* ======================== NEGOCIAÇÃO ======================== */
// POST /api/a/finance/installments/:id/negotiate
func (h *InstallmentActionController) Negotiate(c *fiber.Ctx) error {
	idStr := strings.TrimSpace(c.Params("id"))
	inst, err := fetchInstallment(h.DB, idStr)
	if err != nil {
		return err
	}
	if err := requirePending(inst); err != nil {
		return err
	}

	var req dto.NegotiateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload inválido")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := requireConfirm(req.Confirm); err != nil {
		return err
	}

	// cobrança já no gateway → atualização roteada por lá para manter
	// gateway e banco consistentes; caso contrário é update local direto
	gw, err := h.linkedGateway(c.UserContext(), inst)
	if err != nil {
		return err
	}

	if _, err := service.ApplyNegotiation(c.UserContext(), h.DB, gw, inst, req.NegotiationInput); err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return fe
		}
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return h.respondRefetched(c, idStr, "Negociação aplicada")
}

/* ======================== DATAS ======================== */
// PATCH /api/a/finance/installments/:id/dates
// Correção simples de datas - sem gateway, sem confirmação.
func (h *InstallmentActionController) UpdateDates(c *fiber.Ctx) error {
	idStr := strings.TrimSpace(c.Params("id"))
	inst, err := fetchInstallment(h.DB, idStr)
	if err != nil {
		return err
	}

	var req dto.UpdateDatesRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload inválido")
	}

	patch, err := datesPatch(inst, req)
	if err != nil {
		return err
	}
	if len(patch) == 0 {
		return helper.JsonOK(c, "Nenhuma alteração", dto.FromModel(*inst))
	}
	patch["installment_updated_at"] = time.Now()

	if err := h.DB.Model(&model.InstallmentModel{}).
		Where("installment_id = ?", inst.InstallmentID).
		Updates(patch).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Falha ao atualizar datas")
	}

	return h.respondRefetched(c, idStr, "Datas atualizadas")
}

/* ======================== CANCELAMENTO ======================== */
// POST /api/a/finance/installments/:id/cancel
func (h *InstallmentActionController) Cancel(c *fiber.Ctx) error {
	idStr := strings.TrimSpace(c.Params("id"))
	inst, err := fetchInstallment(h.DB, idStr)
	if err != nil {
		return err
	}
	if err := requirePending(inst); err != nil {
		return err
	}

	var req dto.CancelRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload inválido")
	}
	if err := requireConfirm(req.Confirm); err != nil {
		return err
	}

	var gw gatewayService.AsaasAPI
	if inst.IsGatewayLinked() {
		// com cobrança viva no gateway, cancelar exige o gateway configurado
		gw, err = h.asaasGateway(c.UserContext())
		if err != nil {
			return err
		}
	}

	if err := service.CancelCharge(c.UserContext(), h.DB, gw, inst); err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return h.respondRefetched(c, idStr, "Parcela cancelada")
}

/* ======================== GERAÇÃO DE COBRANÇA (uma parcela) ======================== */
// POST /api/a/finance/installments/:id/generate
func (h *InstallmentActionController) Generate(c *fiber.Ctx) error {
	idStr := strings.TrimSpace(c.Params("id"))
	inst, err := fetchInstallment(h.DB, idStr)
	if err != nil {
		return err
	}
	if err := requirePending(inst); err != nil {
		return err
	}

	var req dto.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload inválido")
	}
	if err := requireConfirm(req.Confirm); err != nil {
		return err
	}

	gw, err := h.asaasGateway(c.UserContext())
	if err != nil {
		return err
	}

	links := service.NewPaymentLinkService(h.DB, gw)
	result := links.GenerateBatch(c.UserContext(), []uuid.UUID{inst.InstallmentID})
	if len(result.Details) == 1 && result.Details[0].Status == "error" {
		return fiber.NewError(fiber.StatusBadGateway, result.Details[0].Message)
	}

	return h.respondRefetched(c, idStr, "Cobrança gerada no gateway")
}

/* ======================== GERAÇÃO EM LOTE ======================== */
// POST /api/a/finance/installments/generate-payments
// Erro de configuração aborta o lote inteiro (4xx); erro por item entra no
// details e não interrompe os demais.
func (h *InstallmentActionController) GenerateBatch(c *fiber.Ctx) error {
	var req dto.GenerateBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload inválido")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "installment_ids não pode ser vazio")
	}

	gw, err := h.asaasGateway(c.UserContext())
	if err != nil {
		return err
	}

	links := service.NewPaymentLinkService(h.DB, gw)
	result := links.GenerateBatch(c.UserContext(), req.InstallmentIDs)

	return helper.JsonOK(c, "Lote processado", result)
}

/* ======================== AÇÃO GENÉRICA DE GATEWAY ======================== */
// POST /api/a/finance/installments/:id/gateway-action
// Entrada genérica consumida pela tela de detalhe: update_value | cancel.
// O payload de update_value já vem com os valores calculados pela tela.
func (h *InstallmentActionController) GatewayAction(c *fiber.Ctx) error {
	idStr := strings.TrimSpace(c.Params("id"))
	inst, err := fetchInstallment(h.DB, idStr)
	if err != nil {
		return err
	}

	var req dto.GatewayActionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload inválido")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	gw, err := h.asaasGateway(c.UserContext())
	if err != nil {
		return err
	}

	switch req.Action {
	case "update_value":
		if req.Payload == nil {
			return fiber.NewError(fiber.StatusBadRequest, "payload é obrigatório para update_value")
		}
		if err := requirePending(inst); err != nil {
			return err
		}
		if inst.IsGatewayLinked() {
			if err := gw.UpdateChargeValue(c.UserContext(), *inst.InstallmentGatewayIntegrationID, req.Payload.NewValue); err != nil {
				return fiber.NewError(fiber.StatusBadGateway, err.Error())
			}
		}

		original := inst.InstallmentValue
		if inst.InstallmentOriginalValue != nil {
			original = *inst.InstallmentOriginalValue
		}
		// campos da negociação anterior são sempre sobrescritos: payload
		// sem tipo/observação limpa o que havia
		now := time.Now()
		patch := map[string]interface{}{
			"installment_value":             req.Payload.NewValue,
			"installment_original_value":    original,
			"installment_discount_value":    req.Payload.DiscountValue,
			"installment_surcharge_value":   req.Payload.SurchargeValue,
			"installment_negotiation_type":  nil,
			"installment_negotiation_notes": nil,
			"installment_negotiation_date":  now,
			"installment_updated_at":        now,
		}
		if req.Payload.NegotiationType != "" {
			patch["installment_negotiation_type"] = req.Payload.NegotiationType
		}
		if req.Payload.NegotiationNotes != "" {
			patch["installment_negotiation_notes"] = req.Payload.NegotiationNotes
		}
		if err := h.DB.Model(&model.InstallmentModel{}).
			Where("installment_id = ?", inst.InstallmentID).
			Updates(patch).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Falha ao gravar novo valor")
		}
		return h.respondRefetched(c, idStr, "Valor atualizado no gateway")

	case "cancel":
		if err := requirePending(inst); err != nil {
			return err
		}
		if err := service.CancelCharge(c.UserContext(), h.DB, gw, inst); err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		return h.respondRefetched(c, idStr, "Cobrança cancelada")
	}

	log.Println("[WARN] Ação de gateway desconhecida:", req.Action)
	return fiber.NewError(fiber.StatusBadRequest, "Ação desconhecida")
}
