package delivery

import (
	"net/http"

	"rfp-backend/internal/rfp/dto"
	"rfp-backend/internal/rfp/usecase"

	"github.com/gin-gonic/gin"
)

type RFPHandler struct {
	usecase usecase.RFPUsecase
}

func NewRFPHandler(usecase usecase.RFPUsecase) *RFPHandler {
	return &RFPHandler{usecase: usecase}
}

// ParseRFP converts free text into a structured RFP via the AI provider.
// The model's raw JSON text is forwarded as-is.
func (h *RFPHandler) ParseRFP(c *gin.Context) {
	var req dto.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	structuredRFP, err := h.usecase.ParseRequest(c.Request.Context(), req.RFPText)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "application/json", []byte(structuredRFP))
}

// CreateAndSend persists an RFP and emails it to the given vendors
func (h *RFPHandler) CreateAndSend(c *gin.Context) {
	var req dto.CreateAndSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rfp := req.RFPText
	if _, err := h.usecase.CreateAndSend(c.Request.Context(), &rfp, req.VendorEmails); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "RFP created and emails sent."})
}

// GetRFP returns one RFP by id
func (h *RFPHandler) GetRFP(c *gin.Context) {
	rfp, err := h.usecase.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rfp == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "RFP not found"})
		return
	}
	c.JSON(http.StatusOK, rfp)
}

// ListProposals returns the vendor proposals recorded for an RFP id
func (h *RFPHandler) ListProposals(c *gin.Context) {
	proposals, err := h.usecase.ListProposals(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, proposals)
}
