package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/snackhub/api/internal/database"
)

// ProductStore defines the database methods needed by product handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ProductStore interface {
	ListProducts(ctx context.Context) ([]database.Product, error)
	CreateProduct(ctx context.Context, arg database.CreateProductParams) (database.Product, error)
	UpdateProduct(ctx context.Context, arg database.UpdateProductParams) (database.Product, error)
	UpdateProductImage(ctx context.Context, arg database.UpdateProductImageParams) (uuid.UUID, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// ProductHandler handles product CRUD endpoints.
type ProductHandler struct {
	store     ProductStore
	uploadDir string
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(store ProductStore, uploadDir string) *ProductHandler {
	return &ProductHandler{store: store, uploadDir: uploadDir}
}

// RegisterRoutes registers the protected product endpoints.
// List lives on the public router (see router.New).
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Post("/storeProduct", h.Create)
	r.Put("/updateProduct/{id}", h.Update)
	r.Delete("/deleteProduct/{id}", h.Delete)
}

// --- Request / Response types ---

type productForm struct {
	Name     string
	Price    string
	Quantity string
}

func readProductForm(r *http.Request) productForm {
	return productForm{
		Name:     r.FormValue("name"),
		Price:    r.FormValue("price"),
		Quantity: r.FormValue("quantity"),
	}
}

func (f *productForm) validate() (validationErrors, decimal.Decimal, int32) {
	errs := validationErrors{}

	if f.Name == "" {
		errs.add("name", "The name field is required.")
	}

	var price decimal.Decimal
	if f.Price == "" {
		errs.add("price", "The price field is required.")
	} else {
		var err error
		price, err = decimal.NewFromString(f.Price)
		if err != nil || price.IsNegative() {
			errs.add("price", "The price must be a non-negative number.")
		}
	}

	var quantity int64
	if f.Quantity == "" {
		errs.add("quantity", "The quantity field is required.")
	} else {
		var err error
		quantity, err = strconv.ParseInt(f.Quantity, 10, 32)
		if err != nil || quantity < 0 {
			errs.add("quantity", "The quantity must be a non-negative number.")
		}
	}

	return errs, price, int32(quantity)
}

type productResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Quantity  int32     `json:"quantity"`
	ImagePath string    `json:"image_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toProductResponse(p database.Product) productResponse {
	return productResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     numericString(p.Price),
		Quantity:  p.Quantity,
		ImagePath: p.ImagePath.String,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// --- Handlers ---

// List returns all products for the POS grid.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		writeInternalError(w, "list products", err)
		return
	}

	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"products": resp})
}

// Create adds a new product, optionally storing an uploaded image.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	form := readProductForm(r)
	errs, price, quantity := form.validate()
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	imagePath, err := saveUpload(r, "productImage", h.uploadDir)
	if err != nil {
		if errors.Is(err, errBadImageType) {
			writeFieldError(w, "productImage", err.Error())
			return
		}
		writeInternalError(w, "create product: save image", err)
		return
	}

	product, err := h.store.CreateProduct(r.Context(), database.CreateProductParams{
		Name:      form.Name,
		Price:     decimalToNumeric(price),
		Quantity:  quantity,
		ImagePath: imagePath,
	})
	if err != nil {
		writeInternalError(w, "create product", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Product created successfully.",
		"product": toProductResponse(product),
	})
}

// Update modifies an existing product. The image is only replaced when a
// new file is uploaded.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	form := readProductForm(r)
	errs, price, quantity := form.validate()
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	product, err := h.store.UpdateProduct(r.Context(), database.UpdateProductParams{
		Name:     form.Name,
		Price:    decimalToNumeric(price),
		Quantity: quantity,
		ID:       productID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeMessage(w, http.StatusNotFound, "product not found")
			return
		}
		writeInternalError(w, "update product", err)
		return
	}

	imagePath, err := saveUpload(r, "productImage", h.uploadDir)
	if err != nil {
		if errors.Is(err, errBadImageType) {
			writeFieldError(w, "productImage", err.Error())
			return
		}
		writeInternalError(w, "update product: save image", err)
		return
	}
	if imagePath.Valid {
		if _, err := h.store.UpdateProductImage(r.Context(), database.UpdateProductImageParams{
			ImagePath: imagePath,
			ID:        productID,
		}); err != nil {
			writeInternalError(w, "update product: image", err)
			return
		}
		product.ImagePath = imagePath
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Product updated successfully.",
		"product": toProductResponse(product),
	})
}

// Delete removes a product. Order items reference products, so a product
// that appears in order history is kept and the request rejected.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if _, err := h.store.DeleteProduct(r.Context(), productID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeMessage(w, http.StatusNotFound, "product not found")
			return
		}
		if isForeignKeyViolation(err) {
			writeMessage(w, http.StatusUnprocessableEntity, "cannot delete product: it appears in existing orders")
			return
		}
		writeInternalError(w, "delete product", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully."})
}
