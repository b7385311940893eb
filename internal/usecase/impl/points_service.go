package impl

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"rewards/internal/domain/entity"
	"rewards/internal/domain/repository"
	"rewards/internal/domain/service"
	"rewards/internal/errors"
	"rewards/internal/usecase"
	"rewards/internal/util"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// maxPurchaseQuantity bounds a single cart line.
const maxPurchaseQuantity = 1000

type pointsService struct {
	router  repository.StoreRouter
	journal journal
}

// PointsServiceParams holds dependencies for PointsService, injected by Fx.
type PointsServiceParams struct {
	fx.In

	Router repository.StoreRouter
	Bus    service.SignalBus
	Logger *slog.Logger
}

// NewPointsService creates a new points service instance
func NewPointsService(params PointsServiceParams) usecase.PointsUsecase {
	return &pointsService{
		router:  params.Router,
		journal: newJournal(params.Bus, params.Logger),
	}
}

// AdjustPoints applies a signed change to a driver's balance. Deductions may
// not take the balance below the floor of the sponsor the change is made under.
func (s *pointsService) AdjustPoints(ctx context.Context, input usecase.AdjustPointsInput) (entity.Result[*entity.Transaction], error) {
	if input.Amount == 0 {
		return entity.Fail[*entity.Transaction](entity.CodeInvalidAmount, "Point amount must not be zero"), nil
	}
	if input.Type == "" {
		input.Type = entity.TransactionManual
	}
	if !input.Type.IsValid() {
		return entity.Fail[*entity.Transaction](entity.CodeInvalidInput, fmt.Sprintf("Unknown transaction type %q", input.Type)), nil
	}

	return s.adjust(ctx, s.router.Active(ctx), input)
}

func (s *pointsService) adjust(ctx context.Context, store repository.Store, input usecase.AdjustPointsInput) (entity.Result[*entity.Transaction], error) {
	user, err := store.Users().FindByID(ctx, input.UserID)
	if err != nil {
		return entity.Result[*entity.Transaction]{}, errors.Wrap(err, "failed to find user")
	}
	if user == nil {
		return entity.Fail[*entity.Transaction](entity.CodeUserNotFound, "Driver not found"), nil
	}
	if !user.HasBalance() {
		return entity.Fail[*entity.Transaction](entity.CodeNoBalance, "Driver has no points balance"), nil
	}

	sponsorID := input.SponsorID
	if sponsorID == "" {
		sponsorID = user.SponsorID
	}
	sponsor, err := store.Sponsors().FindByID(ctx, sponsorID)
	if err != nil {
		return entity.Result[*entity.Transaction]{}, errors.Wrap(err, "failed to find sponsor")
	}
	if sponsor == nil && input.SponsorID != "" {
		return entity.Fail[*entity.Transaction](entity.CodeSponsorNotFound, "Sponsor not found"), nil
	}

	balance := user.Balance()
	next, ok := addPoints(balance, input.Amount)
	if !ok {
		return entity.Fail[*entity.Transaction](entity.CodeInvalidAmount, "Point amount is out of range"), nil
	}
	floor := sponsor.Floor()
	if input.Amount < 0 && next < floor {
		return entity.Fail[*entity.Transaction](entity.CodePointsFloor,
			fmt.Sprintf("Deducting %d points would drop the balance of %d below the minimum of %d",
				util.AbsInt(input.Amount), balance, floor)), nil
	}

	tx := &entity.Transaction{
		ID:        "tx-" + uuid.NewString(),
		UserID:    user.ID,
		Date:      time.Now().UTC(),
		Amount:    input.Amount,
		Reason:    input.Reason,
		SponsorID: sponsorID,
		ActorName: input.Actor,
		Type:      input.Type,
	}
	if sponsor != nil {
		tx.SponsorName = sponsor.Name
	}
	if err := store.Transactions().Insert(ctx, tx); err != nil {
		return entity.Result[*entity.Transaction]{}, errors.Wrap(err, "failed to record transaction")
	}

	user.Points = util.Ptr(next)
	if err := store.Users().Update(ctx, user); err != nil {
		if rbErr := store.Transactions().Delete(ctx, tx.ID); rbErr != nil {
			s.journal.logger.Error("Failed to withdraw transaction after balance update failed",
				slog.String("transaction_id", tx.ID),
				slog.Any("error", rbErr),
			)
		}

		return entity.Result[*entity.Transaction]{}, errors.Wrap(err, "failed to update balance")
	}

	action := "Awarded points"
	if input.Amount < 0 {
		action = "Deducted points"
	}
	s.journal.audit(ctx, store, input.Actor, user.DisplayName, action, entity.AuditCategoryPoints,
		fmt.Sprintf("%s: %s", util.FormatPoints(input.Amount), input.Reason))

	wants := user.WantsPointsAlerts()
	title := "Points updated"
	if input.Type == entity.TransactionPurchase {
		wants = user.WantsOrderAlerts()
		title = "Order placed"
	}
	if wants {
		s.journal.notifyQuietly(ctx, store, user.ID, title,
			fmt.Sprintf("%s (%s). New balance: %d", util.FormatPoints(input.Amount), input.Reason, *user.Points))
	} else {
		s.journal.publish(service.SignalNotificationsRefresh)
	}

	return entity.Ok(tx), nil
}

// Purchase redeems catalog items as a single PURCHASE deduction.
func (s *pointsService) Purchase(ctx context.Context, userID string, items []usecase.PurchaseItem) (entity.Result[*entity.Transaction], error) {
	if len(items) == 0 {
		return entity.Fail[*entity.Transaction](entity.CodeEmptyCart, "Cart is empty"), nil
	}

	store := s.router.Active(ctx)

	user, err := store.Users().FindByID(ctx, userID)
	if err != nil {
		return entity.Result[*entity.Transaction]{}, errors.Wrap(err, "failed to find user")
	}
	if user == nil {
		return entity.Fail[*entity.Transaction](entity.CodeUserNotFound, "Driver not found"), nil
	}

	total := 0
	lines := make([]string, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 || item.Quantity > maxPurchaseQuantity {
			return entity.Fail[*entity.Transaction](entity.CodeInvalidAmount,
				fmt.Sprintf("Quantity must be between 1 and %d", maxPurchaseQuantity)), nil
		}

		product, err := store.Catalog().FindByID(ctx, item.ProductID)
		if err != nil {
			return entity.Result[*entity.Transaction]{}, errors.Wrap(err, "failed to find product")
		}
		if product == nil {
			return entity.Fail[*entity.Transaction](entity.CodeProductNotFound, fmt.Sprintf("Product %s not found", item.ProductID)), nil
		}
		if !product.Available {
			return entity.Fail[*entity.Transaction](entity.CodeProductUnavailable, fmt.Sprintf("%s is no longer available", product.Name)), nil
		}

		if product.PricePoints < 0 || item.Quantity > (math.MaxInt-total)/max(product.PricePoints, 1) {
			return entity.Fail[*entity.Transaction](entity.CodeInvalidAmount, "Cart total is out of range"), nil
		}
		total += product.PricePoints * item.Quantity
		lines = append(lines, fmt.Sprintf("%s x%d", product.Name, item.Quantity))
	}

	if total <= 0 {
		return entity.Fail[*entity.Transaction](entity.CodeInvalidAmount, "Cart total must be positive"), nil
	}

	return s.adjust(ctx, store, usecase.AdjustPointsInput{
		UserID: user.ID,
		Amount: -total,
		Reason: "Purchase: " + strings.Join(lines, ", "),
		Actor:  user.DisplayName,
		Type:   entity.TransactionPurchase,
	})
}

func (s *pointsService) ListTransactions(ctx context.Context, userID string) ([]*entity.Transaction, error) {
	txs, err := s.router.Active(ctx).Transactions().ListByUser(ctx, userID)

	return txs, errors.Wrap(err, "failed to list transactions")
}

func (s *pointsService) ListSponsorTransactions(ctx context.Context, sponsorID string) ([]*entity.Transaction, error) {
	txs, err := s.router.Active(ctx).Transactions().List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list transactions")
	}

	result := make([]*entity.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.SponsorID == sponsorID {
			result = append(result, tx)
		}
	}

	return result, nil
}

func (s *pointsService) GetTransaction(ctx context.Context, id string) (*entity.Transaction, error) {
	tx, err := s.router.Active(ctx).Transactions().FindByID(ctx, id)

	return tx, errors.Wrap(err, "failed to find transaction")
}

// RequestRefund opens a refund on one of the user's purchases and messages the sponsor.
func (s *pointsService) RequestRefund(ctx context.Context, txID, userID, reason string) (entity.Result[*entity.Transaction], error) {
	store := s.router.Active(ctx)

	tx, err := store.Transactions().FindByID(ctx, txID)
	if err != nil {
		return entity.Result[*entity.Transaction]{}, errors.Wrap(err, "failed to find transaction")
	}
	if tx == nil || tx.UserID != userID {
		return entity.Fail[*entity.Transaction](entity.CodeTransactionNotFound, "Transaction not found"), nil
	}
	if tx.Type != entity.TransactionPurchase {
		return entity.Fail[*entity.Transaction](entity.CodeNotRefundable, "Only purchases can be refunded"), nil
	}
	if tx.RefundStatus != nil {
		return entity.Fail[*entity.Transaction](entity.CodeNotRefundable,
			fmt.Sprintf("A refund was already %s for this purchase", strings.ToLower(string(*tx.RefundStatus)))), nil
	}

	tx.RefundStatus = util.Ptr(entity.RefundPending)
	if err := store.Transactions().Update(ctx, tx); err != nil {
		return entity.Result[*entity.Transaction]{}, errors.Wrap(err, "failed to request refund")
	}

	receiver, err := s.sponsorContact(ctx, store, tx.SponsorID)
	if err != nil {
		return entity.Result[*entity.Transaction]{}, err
	}

	msg := &entity.Message{
		ID:         "msg-" + uuid.NewString(),
		SenderID:   userID,
		ReceiverID: receiver,
		Body:       fmt.Sprintf("Refund requested for %q (%d pts). %s", tx.Reason, util.AbsInt(tx.Amount), reason),
		SentAt:     time.Now().UTC(),
		RefundRequest: &entity.RefundRequest{
			TransactionID: tx.ID,
			Amount:        util.AbsInt(tx.Amount),
			Reason:        reason,
		},
	}
	if err := store.Messages().Create(ctx, msg); err != nil {
		return entity.Result[*entity.Transaction]{}, errors.Wrap(err, "failed to send refund request")
	}

	s.journal.publish(service.SignalNewChatMessage)

	return entity.Ok(tx), nil
}

// ApproveRefund credits the purchase back. The refund status is settled before
// the credit so a repeated approval finds it no longer pending; a failed credit
// reopens it.
func (s *pointsService) ApproveRefund(ctx context.Context, txID, actor string) (entity.Result[*entity.Transaction], error) {
	store := s.router.Active(ctx)

	tx, res, err := s.pendingRefund(ctx, store, txID)
	if tx == nil {
		return res, err
	}

	user, err := store.Users().FindByID(ctx, tx.UserID)
	if err != nil {
		return entity.Result[*entity.Transaction]{}, errors.Wrap(err, "failed to find user")
	}
	if user == nil {
		return entity.Fail[*entity.Transaction](entity.CodeUserNotFound, "Driver not found"), nil
	}

	credit := util.AbsInt(tx.Amount)
	next, ok := addPoints(user.Balance(), credit)
	if !ok {
		return entity.Fail[*entity.Transaction](entity.CodeInvalidAmount, "Refund amount is out of range"), nil
	}

	tx.RefundStatus = util.Ptr(entity.RefundRefunded)
	if err := store.Transactions().Update(ctx, tx); err != nil {
		return entity.Result[*entity.Transaction]{}, errors.Wrap(err, "failed to settle refund")
	}

	user.Points = util.Ptr(next)
	if err := store.Users().Update(ctx, user); err != nil {
		tx.RefundStatus = util.Ptr(entity.RefundPending)
		if rbErr := store.Transactions().Update(ctx, tx); rbErr != nil {
			s.journal.logger.Error("Failed to reopen refund after credit failed",
				slog.String("transaction_id", tx.ID),
				slog.Any("error", rbErr),
			)
		}

		return entity.Result[*entity.Transaction]{}, errors.Wrap(err, "failed to credit refund")
	}

	s.journal.audit(ctx, store, actor, user.DisplayName, "Approved refund", entity.AuditCategoryPoints,
		fmt.Sprintf("%s: %s", util.FormatPoints(credit), tx.Reason))
	if user.WantsPointsAlerts() {
		s.journal.notifyQuietly(ctx, store, user.ID, "Refund approved",
			fmt.Sprintf("%s returned for %q. New balance: %d", util.FormatPoints(credit), tx.Reason, *user.Points))
	}
	s.journal.publish(service.SignalNewChatMessage)

	return entity.Ok(tx), nil
}

func (s *pointsService) DenyRefund(ctx context.Context, txID, actor string) (entity.Result[*entity.Transaction], error) {
	store := s.router.Active(ctx)

	tx, res, err := s.pendingRefund(ctx, store, txID)
	if tx == nil {
		return res, err
	}

	tx.RefundStatus = util.Ptr(entity.RefundRejected)
	if err := store.Transactions().Update(ctx, tx); err != nil {
		return entity.Result[*entity.Transaction]{}, errors.Wrap(err, "failed to deny refund")
	}

	user, err := store.Users().FindByID(ctx, tx.UserID)
	if err != nil {
		return entity.Result[*entity.Transaction]{}, errors.Wrap(err, "failed to find user")
	}

	target := tx.UserID
	if user != nil {
		target = user.DisplayName
	}
	s.journal.audit(ctx, store, actor, target, "Denied refund", entity.AuditCategoryPoints, tx.Reason)
	if user != nil && user.WantsPointsAlerts() {
		s.journal.notifyQuietly(ctx, store, user.ID, "Refund denied",
			fmt.Sprintf("Your refund request for %q was denied.", tx.Reason))
	}
	s.journal.publish(service.SignalNewChatMessage)

	return entity.Ok(tx), nil
}

// pendingRefund loads a transaction whose refund awaits a decision. A nil
// transaction means the caller should return res and err as they are.
func (s *pointsService) pendingRefund(ctx context.Context, store repository.Store, txID string) (*entity.Transaction, entity.Result[*entity.Transaction], error) {
	tx, err := store.Transactions().FindByID(ctx, txID)
	if err != nil {
		return nil, entity.Result[*entity.Transaction]{}, errors.Wrap(err, "failed to find transaction")
	}
	if tx == nil {
		return nil, entity.Fail[*entity.Transaction](entity.CodeTransactionNotFound, "Transaction not found"), nil
	}
	if !tx.RefundPendingApproval() {
		return nil, entity.Fail[*entity.Transaction](entity.CodeRefundNotPending, "No pending refund for this transaction"), nil
	}

	return tx, entity.Result[*entity.Transaction]{}, nil
}

// sponsorContact picks the sponsor staff member who receives refund requests,
// falling back to the sponsor id itself when the sponsor has no staff account.
func (s *pointsService) sponsorContact(ctx context.Context, store repository.Store, sponsorID string) (string, error) {
	users, err := store.Users().List(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to list users")
	}

	for _, u := range users {
		if u.Role == entity.RoleSponsor && u.SponsorID == sponsorID {
			return u.ID, nil
		}
	}

	return sponsorID, nil
}

// addPoints adds a signed amount to a balance, reporting false on overflow.
func addPoints(balance, amount int) (int, bool) {
	if amount == math.MinInt {
		return 0, false
	}
	sum := balance + amount
	if (amount > 0 && sum < balance) || (amount < 0 && sum > balance) {
		return 0, false
	}

	return sum, true
}
