package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/primoteam/primotracker/app/controllers"
	"github.com/primoteam/primotracker/internal/pkg/constants"
	"github.com/primoteam/primotracker/internal/pkg/middleware"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	adminGroup := app.Group(constants.AdminRoute, middleware.RequireAdmin)
	adminGroup.Get("/", func(c *fiber.Ctx) error {
		return controllers.GetAdminController().HandleAdminDashboard(c)
	})

	// Rep management
	adminGroup.Get("/reps", func(c *fiber.Ctx) error {
		return controllers.GetAdminRepsController().HandleAdminReps(c)
	})
	adminGroup.Get("/reps/create", func(c *fiber.Ctx) error {
		return controllers.GetAdminRepsController().HandleAdminRepCreate(c)
	})
	adminGroup.Post("/reps/store", func(c *fiber.Ctx) error {
		return controllers.GetAdminRepsController().HandleAdminRepStore(c)
	})
	adminGroup.Get("/reps/edit/:id", func(c *fiber.Ctx) error {
		return controllers.GetAdminRepsController().HandleAdminRepEdit(c)
	})
	adminGroup.Post("/reps/update/:id", func(c *fiber.Ctx) error {
		return controllers.GetAdminRepsController().HandleAdminRepUpdate(c)
	})
	adminGroup.Post("/reps/delete/:id", func(c *fiber.Ctx) error {
		return controllers.GetAdminRepsController().HandleAdminRepDelete(c)
	})

	// Store management
	adminGroup.Get("/stores", func(c *fiber.Ctx) error {
		return controllers.GetAdminStoresController().HandleAdminStores(c)
	})
	adminGroup.Get("/stores/create", func(c *fiber.Ctx) error {
		return controllers.GetAdminStoresController().HandleAdminStoreCreate(c)
	})
	adminGroup.Post("/stores/store", func(c *fiber.Ctx) error {
		return controllers.GetAdminStoresController().HandleAdminStoreStore(c)
	})
	adminGroup.Get("/stores/edit/:id", func(c *fiber.Ctx) error {
		return controllers.GetAdminStoresController().HandleAdminStoreEdit(c)
	})
	adminGroup.Post("/stores/update/:id", func(c *fiber.Ctx) error {
		return controllers.GetAdminStoresController().HandleAdminStoreUpdate(c)
	})
	adminGroup.Post("/stores/delete/:id", func(c *fiber.Ctx) error {
		return controllers.GetAdminStoresController().HandleAdminStoreDelete(c)
	})

	// Entry management
	adminGroup.Get("/entries", func(c *fiber.Ctx) error {
		return controllers.GetAdminEntriesController().HandleAdminEntries(c)
	})
	adminGroup.Get("/entries/edit/:id", func(c *fiber.Ctx) error {
		return controllers.GetAdminEntriesController().HandleAdminEntryEdit(c)
	})
	adminGroup.Post("/entries/update/:id", func(c *fiber.Ctx) error {
		return controllers.GetAdminEntriesController().HandleAdminEntryUpdate(c)
	})
	adminGroup.Post("/entries/delete/:id", func(c *fiber.Ctx) error {
		return controllers.GetAdminEntriesController().HandleAdminEntryDelete(c)
	})

	// Weekly export archive
	adminGroup.Post("/export/archive", controllers.HandleExportArchive)
}
