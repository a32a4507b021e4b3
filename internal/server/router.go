package server

import (
	"context"
	"net/http"

	"barkeep/internal/handlers"
	applog "barkeep/internal/log"
)

func newRouter(uploadsDir string) http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")
	mux.HandleFunc("/healthz", handlers.Health)
	applog.Debug(context.Background(), "route registered", "path", "/healthz")
	mux.HandleFunc("/menu", handlers.Menu)
	applog.Debug(context.Background(), "route registered", "path", "/menu")
	mux.HandleFunc("/api/login", handlers.Login)
	mux.HandleFunc("/api/logout", handlers.Logout)
	mux.HandleFunc("/api/session", handlers.Session)
	applog.Debug(context.Background(), "route registered", "path", "/api/session")
	mux.Handle("/api/recipes", handlers.RequireBartender(http.HandlerFunc(handlers.RecipeResource)))
	mux.Handle("/api/recipes/", handlers.RequireBartender(http.HandlerFunc(handlers.RecipeResource)))
	applog.Debug(context.Background(), "route registered", "path", "/api/recipes", "protected", true)
	mux.Handle("/api/catalog", handlers.RequireBartender(http.HandlerFunc(handlers.Catalog)))
	mux.Handle("/api/catalog/import", handlers.RequireBartender(http.HandlerFunc(handlers.CatalogImport)))
	applog.Debug(context.Background(), "route registered", "path", "/api/catalog", "protected", true)
	mux.Handle("/api/admin/migrate", handlers.RequireBartender(http.HandlerFunc(handlers.AdminMigrate)))
	mux.Handle("/api/admin/backfill", handlers.RequireBartender(http.HandlerFunc(handlers.AdminBackfill)))
	applog.Debug(context.Background(), "route registered", "path", "/api/admin", "protected", true)
	mux.Handle("/api/specs/preview", handlers.RequireBartender(http.HandlerFunc(handlers.SpecsPreview)))
	mux.Handle("/api/tools/extract", handlers.RequireBartender(http.HandlerFunc(handlers.ToolsExtractDrinkList)))
	applog.Debug(context.Background(), "route registered", "path", "/api/tools/extract", "protected", true)
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))
	applog.Debug(context.Background(), "route registered", "path", "/uploads/", "static", true)
	return mux
}
