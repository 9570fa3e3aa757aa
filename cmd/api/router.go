package api

import (
	"net/http"

	"rfp-backend/internal/rfp/delivery"

	"github.com/gin-gonic/gin"
)

// Handler owns the HTTP surface of the backend
type Handler struct {
	router *gin.Engine
}

func NewHandler(rfpHandler *delivery.RFPHandler) *Handler {
	r := gin.Default()
	SetupRoutes(r, rfpHandler)
	return &Handler{router: r}
}

func SetupRoutes(r *gin.Engine, rfpHandler *delivery.RFPHandler) {
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "AI RFP Manager is running.")
	})

	api := r.Group("/api")
	{
		rfp := api.Group("/rfp")
		{
			rfp.POST("/parse", rfpHandler.ParseRFP)
			rfp.POST("/create-and-send", rfpHandler.CreateAndSend)
			rfp.GET("/:id", rfpHandler.GetRFP)
			rfp.GET("/:id/proposals", rfpHandler.ListProposals)
		}
	}
}

// Start runs the HTTP server
func (h *Handler) Start(addr string) error {
	return h.router.Run(addr)
}
