package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/dianpu-dev/roster-console/backend/internal/config"
	"github.com/dianpu-dev/roster-console/backend/internal/domain"
	"github.com/dianpu-dev/roster-console/backend/internal/repository"
	"github.com/dianpu-dev/roster-console/backend/internal/scheduling"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mqChannel   *amqp.Channel
	redisClient *redis.Client
	detector    *scheduling.ConflictDetector

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mqCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mqChannel:   mqCh,
		redisClient: rdb,
		detector:    scheduling.NewConflictDetector(cfg.Scheduling.OverrideSecret),

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.myInfo)

		r.Get("/my-info", h.GetMyInfo)
		r.Get("/my-businesses", h.GetMyBusinesses)
		r.Post("/switch-business", h.SwitchBusiness)

		// 以下 API 都作用于解析出来的商家
		r.Group(func(r chi.Router) {
			r.Use(h.businessContext)

			r.Get("/current-business", h.GetCurrentBusiness)

			r.Route("/employees", func(r chi.Router) {
				r.Use(h.requireBusiness)
				r.Get("/", h.GetEmployees)
				r.With(h.RequiredBusinessRole([]domain.Role{domain.RoleSuperAdmin, domain.RoleBusinessAdmin})).Post("/", h.CreateEmployee)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.employeeInfo)
					r.Get("/", h.GetEmployee)
					r.With(h.RequiredBusinessRole([]domain.Role{domain.RoleSuperAdmin, domain.RoleBusinessAdmin})).Patch("/", h.UpdateEmployee)
					r.With(h.RequiredBusinessRole([]domain.Role{domain.RoleSuperAdmin, domain.RoleBusinessAdmin})).Delete("/", h.ArchiveEmployee)
				})
			})

			r.Route("/branches", func(r chi.Router) {
				r.Use(h.requireBusiness)
				r.Get("/", h.GetBranches)
				r.With(h.RequiredBusinessRole([]domain.Role{domain.RoleSuperAdmin, domain.RoleBusinessAdmin})).Post("/", h.CreateBranch)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.branchInfo)
					r.Get("/", h.GetBranch)
					r.With(h.RequiredBusinessRole([]domain.Role{domain.RoleSuperAdmin, domain.RoleBusinessAdmin})).Patch("/", h.UpdateBranch)
					r.With(h.RequiredBusinessRole([]domain.Role{domain.RoleSuperAdmin, domain.RoleBusinessAdmin})).Delete("/", h.ArchiveBranch)
				})
			})

			r.Route("/shifts", func(r chi.Router) {
				// 超级管理员的全局视图也从这里走，所以列表接口不要求选定商家
				r.Get("/", h.GetShifts)
				r.Group(func(r chi.Router) {
					r.Use(h.requireBusiness)
					r.With(h.RequiredBusinessRole([]domain.Role{domain.RoleSuperAdmin, domain.RoleBusinessAdmin})).Post("/", h.CreateShift)
					r.With(h.RequiredBusinessRole([]domain.Role{domain.RoleSuperAdmin, domain.RoleBusinessAdmin})).Post("/bulk-archive", h.BulkArchiveShifts)
					r.Route("/{id}", func(r chi.Router) {
						r.Use(h.shiftInfo)
						r.Get("/", h.GetShift)
						r.Get("/candidates", h.GetShiftCandidates)
						r.With(h.RequiredBusinessRole([]domain.Role{domain.RoleSuperAdmin, domain.RoleBusinessAdmin})).Patch("/", h.UpdateShift)
						r.With(h.RequiredBusinessRole([]domain.Role{domain.RoleSuperAdmin, domain.RoleBusinessAdmin})).Delete("/", h.ArchiveShift)
					})
				})
			})

			r.Route("/submissions", func(r chi.Router) {
				r.Use(h.requireBusiness)
				r.Post("/", h.CreateSubmission)
				// 只有管理员能看到所有提交，防止泄露其他员工的个人安排
				r.With(h.RequiredBusinessRole([]domain.Role{domain.RoleSuperAdmin, domain.RoleBusinessAdmin})).Get("/", h.GetSubmissions)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.submissionInfo)
					r.Use(h.RequiredBusinessRole([]domain.Role{domain.RoleSuperAdmin, domain.RoleBusinessAdmin}))
					r.Get("/", h.GetSubmission)
					r.Patch("/review", h.ReviewSubmission)
				})
			})

			r.With(h.requireBusiness).
				With(h.RequiredBusinessRole([]domain.Role{domain.RoleSuperAdmin, domain.RoleBusinessAdmin})).
				Get("/audit-events", h.GetAuditEvents)
		})
	})
}
