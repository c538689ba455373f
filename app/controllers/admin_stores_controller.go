package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/primoteam/primotracker/app/models"
	"github.com/primoteam/primotracker/app/repository"
)

// AdminStoresController handles admin store management using repository pattern
type AdminStoresController struct {
	storeRepo repository.StoreRepository
}

// NewAdminStoresController creates a new admin stores controller with repository
func NewAdminStoresController(storeRepo repository.StoreRepository) *AdminStoresController {
	return &AdminStoresController{
		storeRepo: storeRepo,
	}
}

// handleError is a helper method for consistent error handling
func (asc *AdminStoresController) handleError(c *fiber.Ctx, message string, err error) error {
	fm := fiber.Map{
		"type":    "error",
		"message": message + ": " + err.Error(),
	}
	return flash.WithError(c, fm).Redirect("/admin/stores")
}

// parseStoreForm fills a store from the submitted form values
func (asc *AdminStoresController) parseStoreForm(c *fiber.Ctx, store *models.Store) error {
	store.Name = c.FormValue("name")

	lat, err := strconv.ParseFloat(c.FormValue("latitude", "0"), 64)
	if err != nil {
		return err
	}
	lng, err := strconv.ParseFloat(c.FormValue("longitude", "0"), 64)
	if err != nil {
		return err
	}
	radius, err := strconv.ParseFloat(c.FormValue("radius_m", "120"), 64)
	if err != nil {
		return err
	}

	store.Latitude = lat
	store.Longitude = lng
	store.RadiusM = radius
	// checkboxes submit nothing when unchecked
	store.Active = c.FormValue("active") == "1"

	return store.Validate()
}

// HandleAdminStores renders the store management page
func (asc *AdminStoresController) HandleAdminStores(c *fiber.Ctx) error {
	stores, err := asc.storeRepo.GetAll()
	if err != nil {
		return asc.handleError(c, "Failed to load stores", err)
	}

	return renderPage(c, "admin/stores", fiber.Map{
		"Title":  "Store Management",
		"Stores": stores,
	})
}

// HandleAdminStoreCreate renders the store creation form
func (asc *AdminStoresController) HandleAdminStoreCreate(c *fiber.Ctx) error {
	return renderPage(c, "admin/store_form", fiber.Map{
		"Title": "New Store",
	})
}

// HandleAdminStoreStore handles store creation
func (asc *AdminStoresController) HandleAdminStoreStore(c *fiber.Ctx) error {
	var store models.Store
	if err := asc.parseStoreForm(c, &store); err != nil {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Invalid store data: " + err.Error(),
		}).Redirect("/admin/stores/create")
	}

	if err := asc.storeRepo.Create(&store); err != nil {
		return asc.handleError(c, "Failed to create store", err)
	}

	return flash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": "Store " + store.Name + " created",
	}).Redirect("/admin/stores")
}

// HandleAdminStoreEdit renders the store edit form
func (asc *AdminStoresController) HandleAdminStoreEdit(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return asc.handleError(c, "Invalid store id", err)
	}

	store, err := asc.storeRepo.GetByID(uint(id))
	if err != nil {
		return asc.handleError(c, "Store not found", err)
	}

	return renderPage(c, "admin/store_form", fiber.Map{
		"Title": "Edit Store",
		"Store": store,
	})
}

// HandleAdminStoreUpdate handles store updates
func (asc *AdminStoresController) HandleAdminStoreUpdate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return asc.handleError(c, "Invalid store id", err)
	}

	store, err := asc.storeRepo.GetByID(uint(id))
	if err != nil {
		return asc.handleError(c, "Store not found", err)
	}

	if err := asc.parseStoreForm(c, store); err != nil {
		return asc.handleError(c, "Invalid store data", err)
	}

	taken, err := asc.storeRepo.NameExistsExceptID(store.Name, store.ID)
	if err != nil {
		return asc.handleError(c, "Failed to check store name", err)
	}
	if taken {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Store name already in use",
		}).Redirect("/admin/stores")
	}

	if err := asc.storeRepo.Update(store); err != nil {
		return asc.handleError(c, "Failed to update store", err)
	}

	return flash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": "Store " + store.Name + " updated",
	}).Redirect("/admin/stores")
}

// HandleAdminStoreDelete handles store deletion
func (asc *AdminStoresController) HandleAdminStoreDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return asc.handleError(c, "Invalid store id", err)
	}

	if err := asc.storeRepo.Delete(uint(id)); err != nil {
		return asc.handleError(c, "Failed to delete store", err)
	}

	return flash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": "Store deleted",
	}).Redirect("/admin/stores")
}

// ============================================================================
// GLOBAL ADMIN STORES CONTROLLER INSTANCE - Singleton Pattern
// ============================================================================

var adminStoresController *AdminStoresController

// InitializeAdminStoresController initializes the global admin stores controller
func InitializeAdminStoresController() {
	storeRepo := repository.GetGlobalFactory().GetStoreRepository()
	adminStoresController = NewAdminStoresController(storeRepo)
}

// GetAdminStoresController returns the global admin stores controller instance
func GetAdminStoresController() *AdminStoresController {
	if adminStoresController == nil {
		InitializeAdminStoresController()
	}
	return adminStoresController
}
