package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/wizard"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client
	resumeStore wizard.BlobStore

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client, resumeStore wizard.BlobStore) (*Handler, error) {
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
		mailChannel: mailCh,
		redisClient: rdb,
		resumeStore: resumeStore,

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
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 是面向申请人的，不需要登录
	h.Mux.Get("/recruitment", h.GetRecruitment)

	h.Mux.Route("/application-drafts", func(r chi.Router) {
		r.Post("/", h.CreateDraft)
		r.Route("/{draftID}", func(r chi.Router) {
			r.Use(h.draft)
			r.Get("/", h.GetDraft)
			r.Delete("/", h.DeleteDraft)
			r.Patch("/fields/{field}", h.UpdateDraftField)
			r.Post("/fields/{field}/blur", h.BlurDraftField)
			r.Put("/answers/{questionID}", h.UpdateDraftAnswer)
			r.Post("/resume", h.UploadDraftResume)
			r.Post("/period-toggles", h.ToggleDraftPeriod)
			r.Post("/next", h.DraftNextStep)
			r.Post("/back", h.DraftPreviousStep)
			r.Post("/submit", h.SubmitDraft)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.Route("/update-email", func(r chi.Router) {
				r.Post("/require", h.RequireUpdateEmail)
				r.Post("/confirm", h.ConfirmUpdateEmail)
			})
		})

		r.Route("/reviewers", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleRecruitLead})).Post("/", h.CreateReviewer)
			r.Get("/", h.GetAllReviewers) // 所有面试官应该都有权限获取其他人的个人信息
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.reviewerInfo)
				r.Get("/", h.GetReviewer)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleRecruitLead})).Patch("/", h.UpdateReviewer)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleRecruitLead})).Delete("/", h.DeleteReviewer)
				r.With(h.RequiredRole([]domain.Role{domain.RoleRecruitLead})).Patch("/password", h.UpdateReviewerPassword)
			})
		})

		r.Route("/recruitment-config", func(r chi.Router) {
			r.Get("/", h.GetRecruitmentConfig)
			r.With(h.RequiredRole([]domain.Role{domain.RoleRecruitLead})).Patch("/", h.UpdateRecruitmentConfig)
		})

		r.Route("/time-slots", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleRecruitLead})).Post("/", h.CreateTimeSlot)
			r.Get("/", h.GetAllTimeSlots)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.timeSlot)
				r.Get("/", h.GetTimeSlot)
				r.With(h.RequiredRole([]domain.Role{domain.RoleRecruitLead})).Patch("/", h.UpdateTimeSlot)
				r.With(h.RequiredRole([]domain.Role{domain.RoleRecruitLead})).Delete("/", h.DeleteTimeSlot)
			})
		})

		r.Route("/applicants", func(r chi.Router) {
			r.Get("/", h.GetAllApplicants)
			r.With(h.RequiredRole([]domain.Role{domain.RoleRecruitLead})).Post("/assignments/generate", h.GenerateAssignments)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.applicantInfo)
				r.Get("/", h.GetApplicant)
				r.With(h.RequiredRole([]domain.Role{domain.RoleRecruitLead})).Patch("/status", h.UpdateApplicantStatus)
				r.With(h.myInfo).Post("/notes", h.AddApplicantNote)
				r.With(h.RequiredRole([]domain.Role{domain.RoleRecruitLead})).Post("/assigned-slot", h.AssignApplicantSlot)
			})
		})
	})
}
