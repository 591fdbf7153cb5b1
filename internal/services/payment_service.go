package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/payOSHQ/payos-lib-golang"
	"gorm.io/gorm"

	"phongtro/internal/infra"
	"phongtro/internal/models/db_models"
	"phongtro/internal/models/response_models"
	"phongtro/internal/repositories"
	"phongtro/pkg/utils"
)

type PayOSConfig struct {
	ClientID     string
	ApiKey       string
	ChecksumKey  string // secret used to sign webhooks
	ReturnURL    string
	CancelURL    string
	ProviderName string // "payos" (stored on TopUpOrder.Provider)
}

// PaymentService handles the wallet top-up collaborator. The gateway is
// only used for deposits; listing payments are funded from the wallet
// balance the deposits feed.
type PaymentServiceInterface interface {
	CreateTopUp(ctx context.Context, accountID uuid.UUID, amount int64) (*response_models.CreateTopUpResponse, error)
	HandleWebhook(c *gin.Context)
}

type paymentService struct {
	topups    repositories.ITopUpRepository
	wallets   WalletServiceInterface
	txManager infra.TxManager
	cfg       PayOSConfig
	loc       *time.Location
}

func NewPaymentService(
	topups repositories.ITopUpRepository,
	wallets WalletServiceInterface,
	txManager infra.TxManager,
	cfg PayOSConfig,
) (PaymentServiceInterface, error) {
	if cfg.ClientID == "" || cfg.ApiKey == "" || cfg.ChecksumKey == "" {
		return nil, errors.New("missing payOS credentials")
	}

	// VN timezone normalization
	vnLoc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		vnLoc = time.FixedZone("ICT", 7*3600)
	}

	return &paymentService{
		topups:    topups,
		wallets:   wallets,
		txManager: txManager,
		cfg:       cfg,
		loc:       vnLoc,
	}, nil
}

func (p *paymentService) CreateTopUp(ctx context.Context, accountID uuid.UUID, amount int64) (*response_models.CreateTopUpResponse, error) {
	if amount <= 0 {
		return nil, utils.ErrInvalidAmount
	}

	wallet, err := p.wallets.EnsureWallet(ctx, accountID)
	if err != nil {
		return nil, err
	}

	// payOS expects an int64 order code; keep it within 13 digits.
	// Unix seconds plus a short random suffix to reduce collisions.
	orderCode := time.Now().Unix()%1_000_000_000 + int64(rand.Intn(9000)+1000)

	order := &db_models.TopUpOrder{
		AccountID:     accountID,
		WalletID:      wallet.ID,
		Amount:        amount,
		Currency:      "VND",
		Status:        db_models.TopUpStatusPending,
		Provider:      p.cfg.ProviderName,
		ProviderTxnID: fmt.Sprintf("payos:%d", orderCode),
		OrderCode:     orderCode,
	}

	if err := p.topups.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create top-up order: %w", err)
	}

	item := payos.Item{
		Name:     "Wallet top-up",
		Price:    int(amount),
		Quantity: 1,
	}

	body := payos.CheckoutRequestType{
		OrderCode:   orderCode,
		Amount:      int(amount),
		Items:       []payos.Item{item},
		Description: fmt.Sprintf("Top up wallet %s", wallet.ID),
		CancelUrl:   p.cfg.CancelURL,
		ReturnUrl:   p.cfg.ReturnURL,
	}

	if err := payos.Key(p.cfg.ClientID, p.cfg.ApiKey, p.cfg.ChecksumKey); err != nil {
		return nil, fmt.Errorf("payos client init: %w", err)
	}

	resp, err := payos.CreatePaymentLink(body)
	if err != nil {
		_ = p.topups.UpdateStatus(ctx, nil, order, db_models.TopUpStatusFailed, nil)
		return nil, fmt.Errorf("payos create link: %w", err)
	}

	// Store the provider payload snapshot for traceability
	meta := map[string]any{"payos_link": resp}
	if bytes, _ := json.Marshal(meta); bytes != nil {
		_ = p.topups.UpdateMetadata(ctx, order, bytes)
	}

	return &response_models.CreateTopUpResponse{
		OrderCode:  orderCode,
		Amount:     amount,
		PaymentURL: resp.CheckoutUrl,
		Provider:   p.cfg.ProviderName,
	}, nil
}

func (p *paymentService) HandleWebhook(c *gin.Context) {

	if err := payos.Key(os.Getenv("PAYOS_CLIENT_ID"),
		os.Getenv("PAYOS_API_KEY"),
		os.Getenv("PAYOS_CHECKSUM_KEY")); err != nil {
		log.Printf("Error setting payos key: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment gateway not configured"})
		return
	}

	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Printf("Error reading request body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	var body payos.WebhookType
	if err := json.Unmarshal(rawBody, &body); err != nil {
		log.Printf("Error parsing webhook data: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook payload"})
		return
	}

	data, payosErr := payos.VerifyPaymentWebhookData(body)
	if payosErr != nil {
		log.Printf("Error verifying webhook data: %v", payosErr)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Failed to verify webhook data"})
		return
	}

	// payOS sends a fixed probe order when the webhook URL is registered.
	if data.OrderCode == 123 {
		c.JSON(http.StatusOK, gin.H{"message": "Confirm webhook complete"})
		return
	}

	ctx := c.Request.Context()
	providerTxn := fmt.Sprintf("payos:%d", data.OrderCode)

	order, err := p.topups.FindByProviderTxnID(ctx, providerTxn)
	if err != nil {
		log.Printf("webhook: lookup failed for order %d: %v", data.OrderCode, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process transaction"})
		return
	}
	if order == nil {
		// Ack 200 to avoid a retry storm, but log for investigation.
		log.Printf("webhook: top-up order not found for order %d", data.OrderCode)
		c.JSON(http.StatusOK, gin.H{"message": "OK"})
		return
	}

	// Idempotency: settle only if not already paid; the ledger reference
	// key backstops a racing duplicate delivery.
	if order.Status != db_models.TopUpStatusPaid {
		now := time.Now().In(p.loc).Unix()
		err = p.txManager.Do(ctx, func(tx *gorm.DB) error {
			if err := p.topups.UpdateStatus(ctx, tx, order, db_models.TopUpStatusPaid, &now); err != nil {
				return err
			}

			message := fmt.Sprintf("Top-up via %s (order %d)", order.Provider, order.OrderCode)
			_, err := p.wallets.Credit(ctx, tx, order.AccountID, order.Amount,
				db_models.TxnKindDeposit, message, "topup:"+providerTxn)
			if errors.Is(err, utils.ErrDuplicateReference) {
				return nil
			}
			return err
		})
		if err != nil {
			log.Printf("webhook: failed to settle top-up for order %d: %v", data.OrderCode, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process transaction"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "OK"})
}
