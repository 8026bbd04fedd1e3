package router

import (
	"time"

	"github.com/acavalcante04/erp-security/internal/config"
	"github.com/acavalcante04/erp-security/internal/handler"
	"github.com/acavalcante04/erp-security/internal/infra"
	"github.com/acavalcante04/erp-security/internal/middleware"
	"github.com/acavalcante04/erp-security/internal/model"
	"github.com/acavalcante04/erp-security/internal/repository"
	"github.com/acavalcante04/erp-security/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	admin      = model.RolAdministrador
	tecnico    = model.RolTecnico
	financeiro = model.RolFinanceiro
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis.
// fila receives the quote emails; nil disables them.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker, fila service.FilaEmail) *gin.Engine {
	if cfg.Producao() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Origens()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP
	// PDFs and XLSX are already compressed
	r.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPathsRegexs([]string{`/pdf$`, `/termo-garantia$`, `/exportar$`})))

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	produtoRepo := repository.NewProdutoRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	orcamentoRepo := repository.NewOrcamentoRepository(db)
	ordemRepo := repository.NewOrdemServicoRepository(db)
	configRepo := repository.NewConfiguracaoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)
	produtoSvc := service.NewProdutoService(produtoRepo, categoriaRepo)
	clienteSvc := service.NewClienteService(clienteRepo, authSvc)
	configSvc := service.NewConfiguracaoService(configRepo, cfg.EmpresaNome)
	docSvc := service.NewDocumentoService(orcamentoRepo, ordemRepo, configSvc)
	orcamentoSvc := service.NewOrcamentoService(orcamentoRepo, produtoRepo, clienteRepo, docSvc, fila)
	conversaoSvc := service.NewConversaoService(orcamentoRepo, ordemRepo, authSvc)
	ordemSvc := service.NewOrdemServicoService(ordemRepo, clienteRepo, authSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	produtosH := handler.NewProdutosHandler(produtoSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	orcamentosH := handler.NewOrcamentosHandler(orcamentoSvc, conversaoSvc, docSvc)
	ordensH := handler.NewOrdensServicoHandler(ordemSvc, docSvc)
	configH := handler.NewConfiguracaoHandler(configSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes. Roles: administrador, tecnico, financeiro, declared per endpoint.
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	todos := middleware.RequireRole(admin, tecnico, financeiro)
	{
		// technician pickers need the list outside the admin area
		v1.GET("/usuarios", middleware.RequireRole(admin, financeiro), usuariosH.Listar)
		usuarios := v1.Group("/usuarios", middleware.RequireRole(admin))
		{
			usuarios.POST("", usuariosH.Criar)
			usuarios.PUT("/:id", usuariosH.Atualizar)
			usuarios.DELETE("/:id", usuariosH.Desativar)
			usuarios.PATCH("/:id/reativar", usuariosH.Reativar)
		}

		v1.GET("/categorias", todos, categoriasH.Listar)
		categorias := v1.Group("/categorias", middleware.RequireRole(admin))
		{
			categorias.POST("", categoriasH.Criar)
			categorias.PUT("/:id", categoriasH.Atualizar)
			categorias.DELETE("/:id", categoriasH.Desativar)
		}

		v1.GET("/produtos", todos, produtosH.Listar)
		v1.GET("/produtos/:id", todos, produtosH.ObterPorID)
		prods := v1.Group("/produtos", middleware.RequireRole(admin))
		{
			prods.POST("", produtosH.Criar)
			prods.PUT("/:id", produtosH.Atualizar)
			prods.DELETE("/:id", produtosH.Desativar)
			prods.PATCH("/:id/reativar", produtosH.Reativar)
		}

		v1.GET("/clientes", todos, clientesH.Listar)
		v1.GET("/clientes/:id", todos, clientesH.ObterPorID)
		v1.POST("/clientes", middleware.RequireRole(admin, financeiro), clientesH.Criar)
		v1.PUT("/clientes/:id", middleware.RequireRole(admin, financeiro), clientesH.Atualizar)

		v1.GET("/orcamentos", todos, orcamentosH.Listar)
		v1.GET("/orcamentos/:id", todos, orcamentosH.ObterPorID)
		v1.GET("/orcamentos/:id/pdf", todos, orcamentosH.PDF)
		// conversion: a technician takes the orders, an admin may assign them
		v1.POST("/orcamentos/gerar-os", middleware.RequireRole(admin, tecnico), orcamentosH.GerarOrdensServico)
		orc := v1.Group("/orcamentos", middleware.RequireRole(admin, financeiro))
		{
			orc.POST("", orcamentosH.Criar)
			orc.PUT("/:id", orcamentosH.Atualizar)
			orc.DELETE("/:id", orcamentosH.Excluir)
			orc.POST("/:id/itens", orcamentosH.AdicionarItem)
			orc.PUT("/:id/itens/:item_id", orcamentosH.AtualizarItem)
			orc.DELETE("/:id/itens/:item_id", orcamentosH.RemoverItem)
			orc.POST("/:id/enviar", orcamentosH.Enviar)
			orc.POST("/:id/aprovar", orcamentosH.Aprovar)
			orc.POST("/:id/rejeitar", orcamentosH.Rejeitar)
			orc.POST("/aprovar-lote", orcamentosH.AprovarLote)
		}

		v1.GET("/ordens-servico", todos, ordensH.Listar)
		v1.GET("/ordens-servico/exportar", middleware.RequireRole(admin, financeiro), ordensH.Exportar)
		v1.GET("/ordens-servico/:id", todos, ordensH.ObterPorID)
		v1.GET("/ordens-servico/:id/pdf", todos, ordensH.PDF)
		v1.GET("/ordens-servico/:id/termo-garantia", todos, ordensH.TermoGarantia)
		ordens := v1.Group("/ordens-servico", middleware.RequireRole(admin, tecnico))
		{
			ordens.POST("", ordensH.Criar)
			ordens.PUT("/:id", ordensH.Atualizar)
			ordens.PATCH("/:id/status", ordensH.AlterarStatus)
		}

		v1.GET("/configuracao", todos, configH.Obter)
		v1.PUT("/configuracao", middleware.RequireRole(admin), configH.Salvar)

		v1.GET("/fila/email/falhas", middleware.RequireRole(admin), handler.FalhasEmail(rdb))
	}

	// Swagger UI outside production only
	if !cfg.Producao() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
