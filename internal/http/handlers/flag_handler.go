// Flag lookup handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trainops/go-booking-backend/internal/domain"
)

// ListFlags godoc
// @ID          listFlags
// @Summary     List diagnostic flag codes
// @Description Returns the static lookup of flag codes and their meanings, as attached to every run.
// @Tags        Flags
// @Produce     json
//
// @Success     200  {array}  domain.FlagMeaning
// @Router      /flags [get]
func (h *Handlers) ListFlags(c *gin.Context) {
	ok(c, http.StatusOK, domain.FlagMeanings())
}
