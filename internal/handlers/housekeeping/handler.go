package housekeeping

import (
	"net/http"

	"github.com/JustAdi10/Booking/infras/otel"
	"github.com/JustAdi10/Booking/internal/domains/housekeeping/model/dto"
	"github.com/JustAdi10/Booking/internal/domains/housekeeping/service"
	"github.com/JustAdi10/Booking/shared/constant"
	gDto "github.com/JustAdi10/Booking/shared/dto"
	"github.com/JustAdi10/Booking/shared/validator"
	"github.com/JustAdi10/Booking/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Housekeeping
	otel    otel.Otel
}

func New(service service.Housekeeping, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/housekeeping", func(routerGroup chi.Router) {
		routerGroup.Get("/my-tasks", handler.GetMyTasks)
		routerGroup.Get("/history", handler.GetHistory)

		routerGroup.Route("/tasks", func(tasks chi.Router) {
			tasks.Post("/", handler.CreateTask)
			tasks.Get("/", handler.GetTasks)
			tasks.Get("/{id}", handler.GetTaskByID)
			tasks.Put("/{id}", handler.UpdateTask)
			tasks.Put("/{id}/status", handler.UpdateTaskStatus)
			tasks.Delete("/{id}", handler.DeleteTask)
		})
	})
}

// CreateTask handles the creation of a new housekeeping task.
// @Summary Create a housekeeping task
// @Description The assignee must be housekeeping staff or an admin.
// @Tags Housekeeping
// @Accept json
// @Produce json
// @Param request body dto.CreateTaskRequest true "Create Task Request"
// @Success 201 {object} response.Data[dto.TaskResponse] "Task created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/housekeeping/tasks [post]
// @Security BearerAuth
func (handler *Handler) CreateTask(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTask")
	defer scope.End()

	var req dto.CreateTaskRequest
	if !response.Bind(writer, request, scope, &req) {
		return
	}

	task, err := handler.service.Create(ctx, req)
	if err != nil {
		response.Failed(writer, scope, err, "failed to create task")

		return
	}

	response.WithJSONMessage(writer, http.StatusCreated, task, "Task created successfully")
}

// GetTasks retrieves tasks based on query parameters.
// @Summary Get all housekeeping tasks
// @Description Housekeeping staff only see the tasks assigned to them.
// @Tags Housekeeping
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param assigned_to query string false "Filter by assignee"
// @Param room_id query string false "Filter by room"
// @Param task_type query string false "CLEANING, MAINTENANCE or INSPECTION"
// @Param priority query string false "LOW, MEDIUM, HIGH or URGENT"
// @Param status query string false "PENDING, IN_PROGRESS, COMPLETED or NEEDS_REPAIR"
// @Param deadline query string false "Due on or before"
// @Success 200 {object} response.Data[dto.GetTasksResponse] "List of tasks"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/housekeeping/tasks [get]
// @Security BearerAuth
func (handler *Handler) GetTasks(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTasks")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	filter, err := handler.filter(request)
	if err != nil {
		response.Failed(writer, scope, err, "invalid query parameters")

		return
	}

	tasks, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		response.Failed(writer, scope, err, "failed to get tasks")

		return
	}

	response.WithJSON(writer, http.StatusOK, tasks)
}

// GetMyTasks lists the caller's tasks.
// @Summary Get my housekeeping tasks
// @Tags Housekeeping
// @Produce json
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Success 200 {object} response.Data[[]dto.TaskResponse] "List of tasks"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/housekeeping/my-tasks [get]
// @Security BearerAuth
func (handler *Handler) GetMyTasks(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyTasks")
	defer scope.End()

	filter, err := handler.filter(request)
	if err != nil {
		response.Failed(writer, scope, err, "invalid query parameters")

		return
	}

	tasks, err := handler.service.MyTasks(ctx, filter)
	if err != nil {
		response.Failed(writer, scope, err, "failed to get my tasks")

		return
	}

	response.WithJSON(writer, http.StatusOK, tasks)
}

// GetTaskByID retrieves a task by its ID.
// @Summary Get a housekeeping task by ID
// @Tags Housekeeping
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} response.Data[dto.TaskResponse] "Task details"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/housekeeping/tasks/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetTaskByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTaskByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	task, err := handler.service.Get(ctx, id)
	if err != nil {
		response.Failed(writer, scope, err, "failed to get task by ID")

		return
	}

	response.WithJSON(writer, http.StatusOK, task)
}

// UpdateTask updates an existing task.
// @Summary Update a housekeeping task by ID
// @Tags Housekeeping
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.UpdateTaskRequest true "Update Task Request"
// @Success 200 {object} response.Data[dto.TaskResponse] "Task updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/housekeeping/tasks/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateTask(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTask")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	var req dto.UpdateTaskRequest
	if !response.Bind(writer, request, scope, &req) {
		return
	}

	task, err := handler.service.Update(ctx, req, id)
	if err != nil {
		response.Failed(writer, scope, err, "failed to update task")

		return
	}

	response.WithJSONMessage(writer, http.StatusOK, task, "Task updated successfully")
}

// UpdateTaskStatus moves a task through its workflow.
// @Summary Update the status of a housekeeping task
// @Description Assignee or admin. The completion time is stamped on the first move to COMPLETED.
// @Tags Housekeeping
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.UpdateTaskStatusRequest true "Update Task Status Request"
// @Success 200 {object} response.Data[dto.TaskResponse] "Task status updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/housekeeping/tasks/{id}/status [put]
// @Security BearerAuth
func (handler *Handler) UpdateTaskStatus(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTaskStatus")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	var req dto.UpdateTaskStatusRequest
	if !response.Bind(writer, request, scope, &req) {
		return
	}

	task, err := handler.service.UpdateStatus(ctx, req, id)
	if err != nil {
		response.Failed(writer, scope, err, "failed to update task status")

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Task " + id + " moved to " + task.Status + " by user " + user)

	response.WithJSONMessage(writer, http.StatusOK, task, "Task status updated successfully")
}

// DeleteTask deletes a task by its ID.
// @Summary Delete a housekeeping task by ID
// @Tags Housekeeping
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} response.Message "Task deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/housekeeping/tasks/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteTask(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTask")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		response.Failed(writer, scope, err, "failed to delete task")

		return
	}

	response.WithMessage(writer, http.StatusOK, "Task deleted successfully")
}

// GetHistory lists completed tasks, most recently completed first.
// @Summary Get housekeeping history
// @Description Only admins see other people's history. The completion window applies when both dates are given.
// @Tags Housekeeping
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param assigned_to query string false "Filter by assignee (admin only)"
// @Param room_id query string false "Filter by room"
// @Param start_date query string false "Completed on or after"
// @Param end_date query string false "Completed on or before"
// @Success 200 {object} response.Data[dto.GetTasksResponse] "Completed tasks"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/housekeeping/history [get]
// @Security BearerAuth
func (handler *Handler) GetHistory(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHistory")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	filter := dto.HistoryFilter{}
	if err := filter.FromRequest(request); err != nil {
		response.Failed(writer, scope, err, "invalid query parameters")

		return
	}

	tasks, err := handler.service.History(ctx, queryParams, filter)
	if err != nil {
		response.Failed(writer, scope, err, "failed to get housekeeping history")

		return
	}

	response.WithJSON(writer, http.StatusOK, tasks)
}

func (handler *Handler) filter(request *http.Request) (dto.TaskFilter, error) {
	filter := dto.TaskFilter{}

	if err := filter.FromRequest(request); err != nil {
		return filter, err
	}

	return filter, validator.ValidateStruct(&filter)
}
