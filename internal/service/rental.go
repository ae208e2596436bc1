package service

import (
	"context"
	"fmt"
	"time"

	"aluko-backend/internal/domain"
	"aluko-backend/internal/logger"
	"aluko-backend/internal/repository"
	"aluko-backend/internal/security"
	"aluko-backend/internal/utils"
)

// notifyTimeout bounds the detached notification fan-out that outlives the
// originating request context.
const notifyTimeout = 10 * time.Second

type rentalService struct {
	rentalRepo   repository.RentalRepository
	listingRepo  repository.ListingRepository
	userRepo     repository.UserRepository
	availability AvailabilityService
	notifier     Notifier
	email        EmailService
	codes        security.CodeSource
	now          func() time.Time
	loc          *time.Location
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	availability AvailabilityService,
	notifier Notifier,
	email EmailService,
	codes security.CodeSource,
) RentalService {
	return &rentalService{
		rentalRepo:   rentalRepo,
		listingRepo:  listingRepo,
		userRepo:     userRepo,
		availability: availability,
		notifier:     notifier,
		email:        email,
		codes:        codes,
		now:          time.Now,
		loc:          time.Local,
	}
}

func (s *rentalService) CreateRentalRequest(ctx context.Context, renterID string, input CreateRentalInput) (*domain.Rental, error) {
	log := logger.WithService("RentalService")
	log.InfoContext(ctx, "create rental request", "renter_id", renterID, "listing_id", input.ListingID)

	if renterID == "" || input.ListingID == "" {
		return nil, domain.Validationf("renter and listing are required")
	}

	var listing *domain.Listing
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		listing, err = s.listingRepo.GetByID(ctx, input.ListingID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if listing.OwnerID == renterID {
		return nil, domain.Validationf("cannot rent your own listing")
	}

	if err := s.validateSchedule(listing, input.StartDate, input.EndDate, input.PickupTime, input.ReturnTime); err != nil {
		return nil, err
	}
	if err := s.validateDelivery(listing, input); err != nil {
		return nil, err
	}

	var open int32
	err = withRetry(ctx, func(ctx context.Context) error {
		var err error
		open, err = s.rentalRepo.CountOpenForRenterOnListing(ctx, renterID, input.ListingID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if open > 0 {
		return nil, domain.Validationf("you already have an open request for this listing")
	}

	// Soft check. Pending requests do not lock the range, so the range is
	// re-verified at approval time; this only keeps obviously dead
	// requests out of the owner's inbox.
	free, err := s.availability.IsRangeFree(ctx, input.ListingID, input.StartDate, input.EndDate, "")
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, domain.ErrRangeConflict
	}

	pricing, err := utils.ComputePricing(listing, input.StartDate, input.EndDate, input.DeliveryMethod)
	if err != nil {
		return nil, err
	}

	rental := &domain.Rental{
		ListingID:      listing.ID,
		OwnerID:        listing.OwnerID,
		RenterID:       renterID,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		PickupTime:     input.PickupTime,
		ReturnTime:     input.ReturnTime,
		DeliveryMethod: input.DeliveryMethod,
		Pricing:        pricing,
		Status:         domain.RentalStatusPending,
	}
	err = withRetry(ctx, func(ctx context.Context) error {
		return s.rentalRepo.Create(ctx, rental)
	})
	if err != nil {
		return nil, err
	}

	go s.announceRequest(rental, listing)

	log.InfoContext(ctx, "rental request created", "rental_id", rental.ID, "total_cents", pricing.TotalAmountCents)
	return rental, nil
}

func (s *rentalService) ApproveRental(ctx context.Context, ownerID, rentalID string) (*domain.Rental, error) {
	log := logger.WithService("RentalService")

	rental, err := s.getRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.OwnerID != ownerID {
		return nil, domain.ErrUnauthorized
	}
	if rental.Status != domain.RentalStatusPending {
		return nil, domain.ErrStateConflict
	}

	// Lock first, then transition. The guarded insert is the race arbiter:
	// if a competing approval on an overlapping request wins, this one
	// fails with a range conflict and the rental stays pending.
	if err := s.availability.Lock(ctx, rental.ListingID, rental.StartDate, rental.EndDate, rental.ID); err != nil {
		return nil, err
	}

	updated, err := s.approveWithCodes(ctx, rental)
	if err != nil {
		// The block belongs to an approval that did not happen; release
		// it so the range is not held by a still-pending rental.
		if relErr := s.availability.Release(ctx, rental.ID); relErr != nil {
			log.ErrorContext(ctx, "failed to release block after aborted approval", "rental_id", rental.ID, "error", relErr)
		}
		return nil, err
	}

	go s.announceApproval(updated)
	log.InfoContext(ctx, "rental approved", "rental_id", rental.ID)
	return updated, nil
}

func (s *rentalService) approveWithCodes(ctx context.Context, rental *domain.Rental) (*domain.Rental, error) {
	ownerCode, err := s.codes.SixDigitCode()
	if err != nil {
		return nil, err
	}
	renterCode, err := s.codes.SixDigitCode()
	if err != nil {
		return nil, err
	}

	patch := domain.RentalPatch{OwnerCode: &ownerCode, RenterCode: &renterCode}
	var updated *domain.Rental
	err = withRetry(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.rentalRepo.ConditionalUpdateStatus(ctx, rental.ID, domain.RentalStatusPending, domain.RentalStatusApproved, patch)
		return err
	})
	return updated, err
}

func (s *rentalService) RejectRental(ctx context.Context, ownerID, rentalID, reason string) (*domain.Rental, error) {
	if reason == "" {
		return nil, domain.Validationf("a rejection reason is required")
	}

	rental, err := s.getRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.OwnerID != ownerID {
		return nil, domain.ErrUnauthorized
	}
	if rental.Status != domain.RentalStatusPending {
		return nil, domain.ErrStateConflict
	}

	var updated *domain.Rental
	err = withRetry(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.rentalRepo.ConditionalUpdateStatus(ctx, rental.ID, domain.RentalStatusPending, domain.RentalStatusRejected,
			domain.RentalPatch{RejectionReason: &reason})
		return err
	})
	if err != nil {
		return nil, err
	}

	go s.announceRejection(updated, reason)
	return updated, nil
}

// ConfirmPickup is performed by the owner, who types in the code shown on
// the renter's device. A matching code proves both parties are physically
// present at the handoff.
func (s *rentalService) ConfirmPickup(ctx context.Context, ownerID, rentalID, code string) (*domain.Rental, error) {
	rental, err := s.getRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.OwnerID != ownerID {
		return nil, domain.ErrUnauthorized
	}
	if rental.Status != domain.RentalStatusApproved {
		return nil, domain.ErrStateConflict
	}
	if rental.RenterCode == nil || code != *rental.RenterCode {
		return nil, domain.ErrCodeMismatch
	}

	used := true
	confirmedAt := s.now().UTC()
	var updated *domain.Rental
	err = withRetry(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.rentalRepo.ConditionalUpdateStatus(ctx, rental.ID, domain.RentalStatusApproved, domain.RentalStatusActive,
			domain.RentalPatch{RenterCodeUsed: &used, PickupConfirmedAt: &confirmedAt})
		return err
	})
	if err != nil {
		return nil, err
	}

	go s.announceTransition(updated, domain.NotificationRentalActive, updated.RenterID,
		"Rental started", "Pickup confirmed. The rental is now active.")
	return updated, nil
}

// ConfirmReturn mirrors pickup with the roles flipped: the renter types in
// the owner's code to prove the item came back.
func (s *rentalService) ConfirmReturn(ctx context.Context, renterID, rentalID, code string) (*domain.Rental, error) {
	log := logger.WithService("RentalService")

	rental, err := s.getRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.RenterID != renterID {
		return nil, domain.ErrUnauthorized
	}
	if rental.Status != domain.RentalStatusActive {
		return nil, domain.ErrStateConflict
	}
	if rental.OwnerCode == nil || code != *rental.OwnerCode {
		return nil, domain.ErrCodeMismatch
	}

	used := true
	confirmedAt := s.now().UTC()
	var updated *domain.Rental
	err = withRetry(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.rentalRepo.ConditionalUpdateStatus(ctx, rental.ID, domain.RentalStatusActive, domain.RentalStatusCompleted,
			domain.RentalPatch{OwnerCodeUsed: &used, ReturnConfirmedAt: &confirmedAt})
		return err
	})
	if err != nil {
		return nil, err
	}

	if relErr := s.availability.Release(ctx, rental.ID); relErr != nil {
		log.ErrorContext(ctx, "failed to release block after completion", "rental_id", rental.ID, "error", relErr)
	}

	go s.announceCompletion(updated)
	return updated, nil
}

func (s *rentalService) CancelRental(ctx context.Context, userID, rentalID string) (*domain.Rental, error) {
	log := logger.WithService("RentalService")

	rental, err := s.getRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	party := rental.Party(userID)
	if party == "" {
		return nil, domain.ErrUnauthorized
	}
	if rental.Status.Terminal() {
		return nil, domain.ErrStateConflict
	}

	var updated *domain.Rental
	err = withRetry(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.rentalRepo.ConditionalUpdateStatus(ctx, rental.ID, rental.Status, domain.RentalStatusCancelled,
			domain.RentalPatch{ClearHandoffState: true})
		return err
	})
	if err != nil {
		return nil, err
	}

	if rental.Status.Locking() {
		if relErr := s.availability.Release(ctx, rental.ID); relErr != nil {
			log.ErrorContext(ctx, "failed to release block after cancellation", "rental_id", rental.ID, "error", relErr)
		}
	}

	go s.announceTransition(updated, domain.NotificationRentalCancelled, updated.Counterparty(userID),
		"Rental cancelled", "The rental has been cancelled.")
	return updated, nil
}

// EditRentalDates re-schedules and reprices a rental the renter owns. An
// edit always sends the rental back to pending: the owner approved the old
// dates, not the new ones, so codes and the block are discarded.
func (s *rentalService) EditRentalDates(ctx context.Context, renterID, rentalID string, input EditDatesInput) (*domain.Rental, error) {
	log := logger.WithService("RentalService")

	rental, err := s.getRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.RenterID != renterID {
		return nil, domain.ErrUnauthorized
	}
	if rental.Status.Terminal() {
		return nil, domain.ErrStateConflict
	}

	var listing *domain.Listing
	err = withRetry(ctx, func(ctx context.Context) error {
		var err error
		listing, err = s.listingRepo.GetByID(ctx, rental.ListingID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.validateSchedule(listing, input.StartDate, input.EndDate, input.PickupTime, input.ReturnTime); err != nil {
		return nil, err
	}

	// The rental's own block must not veto its own new dates.
	free, err := s.availability.IsRangeFree(ctx, rental.ListingID, input.StartDate, input.EndDate, rental.ID)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, domain.ErrRangeConflict
	}

	pricing, err := utils.ComputePricing(listing, input.StartDate, input.EndDate, rental.DeliveryMethod)
	if err != nil {
		return nil, err
	}

	patch := domain.RentalPatch{
		StartDate:         &input.StartDate,
		EndDate:           &input.EndDate,
		PickupTime:        &input.PickupTime,
		ReturnTime:        &input.ReturnTime,
		Pricing:           &pricing,
		ClearHandoffState: true,
	}
	var updated *domain.Rental
	err = withRetry(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.rentalRepo.ConditionalUpdateStatus(ctx, rental.ID, rental.Status, domain.RentalStatusPending, patch)
		return err
	})
	if err != nil {
		return nil, err
	}

	if rental.Status.Locking() {
		if relErr := s.availability.Release(ctx, rental.ID); relErr != nil {
			log.ErrorContext(ctx, "failed to release block after edit", "rental_id", rental.ID, "error", relErr)
		}
	}

	go s.announceTransition(updated, domain.NotificationRentalEdited, updated.OwnerID,
		"Rental dates changed",
		fmt.Sprintf("The renter changed the dates to %s through %s. Please review the request again.", input.StartDate, input.EndDate))
	return updated, nil
}

func (s *rentalService) GetRental(ctx context.Context, userID, rentalID string) (*domain.Rental, error) {
	rental, err := s.getRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.Party(userID) == "" {
		return nil, domain.ErrUnauthorized
	}
	return rental, nil
}

func (s *rentalService) ListRentals(ctx context.Context, renterID string, statuses []domain.RentalStatus) ([]domain.Rental, error) {
	var rentals []domain.Rental
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		rentals, err = s.rentalRepo.ListByRenter(ctx, renterID, statuses)
		return err
	})
	return rentals, err
}

func (s *rentalService) ListLendings(ctx context.Context, ownerID string, statuses []domain.RentalStatus) ([]domain.Rental, error) {
	var rentals []domain.Rental
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		rentals, err = s.rentalRepo.ListByOwner(ctx, ownerID, statuses)
		return err
	})
	return rentals, err
}

func (s *rentalService) getRental(ctx context.Context, rentalID string) (*domain.Rental, error) {
	var rental *domain.Rental
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		rental, err = s.rentalRepo.GetByID(ctx, rentalID)
		return err
	})
	return rental, err
}

func (s *rentalService) validateSchedule(listing *domain.Listing, startDate, endDate, pickupTime, returnTime string) error {
	start, err := utils.ParseDate(startDate)
	if err != nil {
		return domain.Validationf("start date: %v", err)
	}
	end, err := utils.ParseDate(endDate)
	if err != nil {
		return domain.Validationf("end date: %v", err)
	}
	if endDate < startDate {
		return domain.Validationf("end date precedes start date")
	}
	today := s.now().In(s.loc).Format("2006-01-02")
	if startDate < today {
		return domain.Validationf("start date is in the past")
	}
	if _, _, err := utils.ParseTimeOfDay(pickupTime); err != nil {
		return domain.Validationf("pickup time: %v", err)
	}
	if _, _, err := utils.ParseTimeOfDay(returnTime); err != nil {
		return domain.Validationf("return time: %v", err)
	}

	if listing.FlexibleHours {
		return nil
	}
	if len(listing.AllowedWeekdays) > 0 {
		if !weekdayAllowed(listing.AllowedWeekdays, start.Midnight(s.loc).Weekday()) {
			return domain.Validationf("pickup day is not offered by this listing")
		}
		if !weekdayAllowed(listing.AllowedWeekdays, end.Midnight(s.loc).Weekday()) {
			return domain.Validationf("return day is not offered by this listing")
		}
	}
	if len(listing.PickupWindows) > 0 {
		if !timeInWindows(listing.PickupWindows, pickupTime) {
			return domain.Validationf("pickup time is outside the listing's handoff windows")
		}
		if !timeInWindows(listing.PickupWindows, returnTime) {
			return domain.Validationf("return time is outside the listing's handoff windows")
		}
	}
	return nil
}

func (s *rentalService) validateDelivery(listing *domain.Listing, input CreateRentalInput) error {
	switch input.DeliveryMethod {
	case domain.DeliveryMethodPickup:
		return nil
	case domain.DeliveryMethodAddress:
		if !listing.DeliveryAvailable {
			return domain.Validationf("this listing does not offer delivery")
		}
		if input.DeliveryLat == 0 && input.DeliveryLng == 0 {
			return domain.Validationf("a delivery location is required")
		}
		if listing.DeliveryMaxKm > 0 {
			km := utils.DistanceKm(listing.Latitude, listing.Longitude, input.DeliveryLat, input.DeliveryLng)
			if km > listing.DeliveryMaxKm {
				return domain.Validationf("delivery location is %.1f km away, beyond the %.0f km limit", km, listing.DeliveryMaxKm)
			}
		}
		return nil
	default:
		return domain.Validationf("unknown delivery method %q", input.DeliveryMethod)
	}
}

func weekdayAllowed(allowed []time.Weekday, day time.Weekday) bool {
	for _, d := range allowed {
		if d == day {
			return true
		}
	}
	return false
}

func timeInWindows(windows []domain.TimeWindow, hhmm string) bool {
	for _, w := range windows {
		if w.Start <= hhmm && hhmm <= w.End {
			return true
		}
	}
	return false
}

// Announcement helpers run detached from the request: a notification or
// email failure never rolls back a committed transition.

func (s *rentalService) announceRequest(rental *domain.Rental, listing *domain.Listing) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	s.notifier.Notify(ctx, rental.OwnerID, domain.NotificationRentalRequest,
		"New rental request",
		fmt.Sprintf("You have a rental request for %s from %s to %s.", listing.Title, rental.StartDate, rental.EndDate),
		rental.ID)

	owner, err := s.userRepo.GetByID(ctx, rental.OwnerID)
	if err != nil {
		logger.Warn("skipping request email, owner lookup failed", "rental_id", rental.ID, "error", err)
		return
	}
	renterName := "A renter"
	if renter, err := s.userRepo.GetByID(ctx, rental.RenterID); err == nil {
		renterName = renter.Name
	}
	if err := s.email.SendRentalRequestNotification(ctx, owner.Email, renterName, listing.Title); err != nil {
		logger.Warn("request email failed", "rental_id", rental.ID, "error", err)
	}
}

func (s *rentalService) announceApproval(rental *domain.Rental) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	s.notifier.Notify(ctx, rental.RenterID, domain.NotificationRentalApproved,
		"Request approved",
		fmt.Sprintf("Your rental from %s to %s was approved. Show your pickup code at handoff.", rental.StartDate, rental.EndDate),
		rental.ID)

	renter, err := s.userRepo.GetByID(ctx, rental.RenterID)
	if err != nil {
		logger.Warn("skipping approval email, renter lookup failed", "rental_id", rental.ID, "error", err)
		return
	}
	title := s.listingTitle(ctx, rental.ListingID)
	code := ""
	if rental.RenterCode != nil {
		code = *rental.RenterCode
	}
	if err := s.email.SendRentalApprovalNotification(ctx, renter.Email, title, code); err != nil {
		logger.Warn("approval email failed", "rental_id", rental.ID, "error", err)
	}
}

func (s *rentalService) announceRejection(rental *domain.Rental, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	s.notifier.Notify(ctx, rental.RenterID, domain.NotificationRentalRejected,
		"Request declined",
		fmt.Sprintf("Your rental request was declined: %s", reason),
		rental.ID)

	renter, err := s.userRepo.GetByID(ctx, rental.RenterID)
	if err != nil {
		logger.Warn("skipping rejection email, renter lookup failed", "rental_id", rental.ID, "error", err)
		return
	}
	title := s.listingTitle(ctx, rental.ListingID)
	if err := s.email.SendRentalRejectionNotification(ctx, renter.Email, title, reason); err != nil {
		logger.Warn("rejection email failed", "rental_id", rental.ID, "error", err)
	}
}

func (s *rentalService) announceCompletion(rental *domain.Rental) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	s.notifier.Notify(ctx, rental.OwnerID, domain.NotificationRentalCompleted,
		"Rental completed",
		"The item was returned and the rental is complete.",
		rental.ID)

	// Both sides get a review prompt once the loop is closed.
	for _, userID := range []string{rental.OwnerID, rental.RenterID} {
		s.notifier.Notify(ctx, userID, domain.NotificationReviewRequest,
			"How did it go?",
			"Leave a review for your rental partner.",
			rental.ID)
	}
}

func (s *rentalService) announceTransition(rental *domain.Rental, typ domain.NotificationType, userID, title, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	s.notifier.Notify(ctx, userID, typ, title, message, rental.ID)
}

func (s *rentalService) listingTitle(ctx context.Context, listingID string) string {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return "your rental"
	}
	return listing.Title
}
