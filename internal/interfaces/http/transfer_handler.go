package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/SupplyChain-api/internal/application/dto"
	"github.com/jhoicas/SupplyChain-api/internal/application/transfer"
	"github.com/jhoicas/SupplyChain-api/internal/domain"
	"github.com/jhoicas/SupplyChain-api/internal/domain/entity"
)

// TransferHandler maneja las peticiones HTTP del ciclo de vida de transferencias.
type TransferHandler struct {
	orchestrator *transfer.Orchestrator
}

// NewTransferHandler construye el handler.
func NewTransferHandler(orchestrator *transfer.Orchestrator) *TransferHandler {
	return &TransferHandler{orchestrator: orchestrator}
}

func toTransferResponse(t *entity.Transfer) dto.TransferResponse {
	resp := dto.TransferResponse{
		TransferID:      t.TransferID,
		FromLocation:    t.FromLocation,
		ToLocation:      t.ToLocation,
		Status:          t.Status,
		ItemsHash:       t.ItemsHash,
		ContractAddress: t.ContractAddress,
		TxHash:          t.TxHash,
		BlockNumber:     t.BlockNumber,
		ErrorMessage:    t.ErrorMessage,
	}
	if !t.CreatedAt.IsZero() {
		resp.CreatedAt = t.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

// Create godoc
// @Summary      Crear transferencia entre bodegas
// @Description  Valida stock, calcula el itemsHash, registra la transferencia
// @Description  on-chain y deduce el inventario del origen al confirmarse.
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "fromLocation, toLocation, items; transferId opcional"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse  "fallo del ledger; incluye el estado actual de la transferencia"
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	t, err := h.orchestrator.Create(c.Context(), in)
	if err != nil {
		// En fallos del ledger el registro local ya existe (FAILED o REQUESTED
		// pendiente de conciliación): devolverlo junto con el error
		if errors.Is(err, domain.ErrLedger) && t != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error":    dto.ErrorResponse{Code: "LEDGER_ERROR", Message: err.Error()},
				"transfer": toTransferResponse(t),
			})
		}
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransferResponse(t))
}

// GetByID godoc
// @Summary      Consultar una transferencia
// @Tags         transfers
// @Produce      json
// @Param        id  path  string  true  "transferId"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	t, err := h.orchestrator.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toTransferResponse(t))
}

// List godoc
// @Summary      Listar transferencias
// @Description  Todas las transferencias, más recientes primero.
// @Tags         transfers
// @Produce      json
// @Success      200  {array}  dto.TransferResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	list, err := h.orchestrator.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTransferResponse(t))
	}
	return c.JSON(fiber.Map{"total": len(out), "transfers": out})
}

// UpdateStatus godoc
// @Summary      Actualizar estado de una transferencia
// @Description  Solo IN_TRANSIT, DELIVERED y CANCELLED pueden solicitarse.
// @Description  DELIVERED acredita la bodega destino; CANCELLED devuelve el
// @Description  stock deducido a la bodega origen.
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "transferId"
// @Param        body  body  dto.StatusUpdateRequest  true  "nuevo estado"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/status [put]
func (h *TransferHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.StatusUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	t, err := h.orchestrator.UpdateStatus(c.Context(), c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toTransferResponse(t))
}

// Delete godoc
// @Summary      Eliminar una transferencia en REQUESTED
// @Description  Solo mientras no haya salido de REQUESTED; después el registro
// @Description  es parte de la auditoría y no se borra.
// @Tags         transfers
// @Param        id  path  string  true  "transferId"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [delete]
func (h *TransferHandler) Delete(c *fiber.Ctx) error {
	if err := h.orchestrator.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
