package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"clinic-billing-backend/internal/service"
	"clinic-billing-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type BillHandler struct {
	billingService *service.BillingService
}

func NewBillHandler(billingService *service.BillingService) *BillHandler {
	return &BillHandler{
		billingService: billingService,
	}
}

// NewBillForm returns the data the bill creation form needs: today's
// counters and, when patient_id is given, the existing patient to prefill.
func (h *BillHandler) NewBillForm(c *gin.Context) {
	stats, err := h.billingService.GetTodayStats()
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to load today's stats")
		return
	}

	data := gin.H{
		"today_bills_count":    stats.BillCount,
		"today_patients_count": stats.PatientCount,
		"patient":              nil,
	}

	if idStr := c.Query("patient_id"); idStr != "" {
		if id, err := strconv.ParseUint(idStr, 10, 32); err == nil {
			if patient, err := h.billingService.LookupPatient(uint(id)); err == nil {
				data["patient"] = patient
			}
		}
	}

	utils.SuccessResponse(c, data)
}

// CreateBill creates the patient (or reuses one by id) and the bill with its
// items, then redirects to the bill summary.
func (h *BillHandler) CreateBill(c *gin.Context) {
	var req service.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	userID, _ := c.Get("userID")

	bill, err := h.billingService.CreateBill(&req, userID.(uint))
	if err != nil {
		if errors.Is(err, service.ErrPatientNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, err.Error())
		} else {
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/bill/%d", bill.ID))
}

// BillSummary returns one bill with its items and recomputed total
func (h *BillHandler) BillSummary(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid bill ID")
		return
	}

	summary, err := h.billingService.GetBillSummary(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrBillNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, err.Error())
		} else {
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to load bill")
		}
		return
	}

	stats, err := h.billingService.GetTodayStats()
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to load today's stats")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"bill":                 summary,
		"today_bills_count":    stats.BillCount,
		"today_patients_count": stats.PatientCount,
	})
}
