package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-shop/models"
	"go-shop/repository"
	"go-shop/services"
	"go-shop/utils"
)

// OrderController handles the order lifecycle endpoints.
type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// listResponse pairs a page of documents with the total match count.
type listResponse struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"totalCount"`
}

// Create places an order for the caller.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		utils.WriteError(w, utils.ErrUnauthorized("Unauthorized"))
		return
	}

	var req services.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.ErrInvalid("The request body is not valid"))
		return
	}

	order, err := c.orders.Create(r.Context(), userID, req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "Create order success", order)
}

// List returns orders matching the query filter.
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	orders, total, err := c.orders.List(r.Context(), params)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Get all order success", listResponse{Orders: orders, Total: total})
}

// ListOfMe returns the caller's orders.
func (c *OrderController) ListOfMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		utils.WriteError(w, utils.ErrUnauthorized("Unauthorized"))
		return
	}

	params, err := listParams(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	orders, total, err := c.orders.ListOfMe(r.Context(), userID, params)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Get all order of me success", listResponse{Orders: orders, Total: total})
}

// GetDetails returns one order by id.
func (c *OrderController) GetDetails(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderId")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	order, err := c.orders.GetDetails(r.Context(), orderID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Get details order success", order)
}

// GetDetailsOfMe returns one of the caller's orders.
func (c *OrderController) GetDetailsOfMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		utils.WriteError(w, utils.ErrUnauthorized("Unauthorized"))
		return
	}
	orderID, err := pathID(r, "orderId")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	order, err := c.orders.GetDetailsOfMe(r.Context(), userID, orderID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Get details order success", order)
}

// Update applies the administrative general update.
func (c *OrderController) Update(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var req services.UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.ErrInvalid("The request body is not valid"))
		return
	}

	order, err := c.orders.Update(r.Context(), orderID, req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Update order success", order)
}

// UpdateStatus drives the lifecycle transitions.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderId")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var req services.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.ErrInvalid("The request body is not valid"))
		return
	}

	order, err := c.orders.UpdateStatus(r.Context(), orderID, req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Update status order success", order)
}

// Cancel cancels any order on behalf of an administrator.
func (c *OrderController) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderId")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	order, err := c.orders.Cancel(r.Context(), orderID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Cancel order success", order)
}

// CancelOfMe cancels one of the caller's orders.
func (c *OrderController) CancelOfMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		utils.WriteError(w, utils.ErrUnauthorized("Unauthorized"))
		return
	}
	orderID, err := pathID(r, "orderId")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	order, err := c.orders.CancelOfMe(r.Context(), userID, orderID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Cancel order success", order)
}

// Delete removes an order and restores its reserved stock.
func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderId")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	order, err := c.orders.Delete(r.Context(), orderID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Delete order success", order)
}

// pathID parses an ObjectID path variable.
func pathID(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)[name])
	if err != nil {
		return primitive.NilObjectID, utils.ErrInvalid("The field " + name + " must be a valid id")
	}
	return id, nil
}

// listParams reads the shared paging and filter query parameters.
func listParams(r *http.Request) (repository.OrderListParams, error) {
	query := r.URL.Query()
	params := repository.OrderListParams{
		Search: query.Get("search"),
		Page:   1,
		Limit:  10,
	}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || page < 1 {
			return params, utils.ErrInvalid("The field page must be a positive number")
		}
		params.Page = page
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || limit < 1 {
			return params, utils.ErrInvalid("The field limit must be a positive number")
		}
		params.Limit = limit
	}
	if raw := query.Get("status"); raw != "" {
		for _, part := range strings.Split(raw, "|") {
			value, err := strconv.Atoi(part)
			if err != nil || !models.OrderStatus(value).Valid() {
				return params, utils.ErrInvalid("The field status is not valid")
			}
			params.Statuses = append(params.Statuses, models.OrderStatus(value))
		}
	}
	return params, nil
}
