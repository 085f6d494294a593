package handler

import (
	"net/http"
	"strconv"

	"clinic-billing-backend/internal/service"
	"clinic-billing-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	patientService *service.PatientService
}

func NewPatientHandler(patientService *service.PatientService) *PatientHandler {
	return &PatientHandler{
		patientService: patientService,
	}
}

// ListPatients returns all patients with their recent bills. A load failure
// is surfaced as an error message alongside empty results, not as a crash.
func (h *PatientHandler) ListPatients(c *gin.Context) {
	results, err := h.patientService.ListAllPatients()

	var errorMessage interface{}
	if err != nil {
		results = []service.PatientSummary{}
		errorMessage = "Could not load all patients due to invalid data in some bills."
	}

	utils.SuccessResponse(c, gin.H{
		"results":       results,
		"error_message": errorMessage,
	})
}

// SearchPatients searches patients by name. Unexpected failures degrade to
// an empty result set plus an error message.
func (h *PatientHandler) SearchPatients(c *gin.Context) {
	query := c.Query("q")

	results, err := h.patientService.SearchPatients(query)

	var errorMessage interface{}
	if err != nil {
		errorMessage = "Something went wrong while searching. Please try again."
	}

	utils.SuccessResponse(c, gin.H{
		"query":         query,
		"results":       results,
		"error_message": errorMessage,
	})
}

// DeletePatient removes a patient and everything it owns, then redirects
// back to the list whatever the outcome. The (success, error) result is
// computed but deliberately not surfaced to the user yet.
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/patients/list")
		return
	}

	userID, _ := c.Get("userID")
	_, _ = h.patientService.DeletePatient(uint(id), userID.(uint))

	c.Redirect(http.StatusSeeOther, "/patients/list")
}
