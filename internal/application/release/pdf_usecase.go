package release

import (
	"context"
	"fmt"

	"github.com/NextWave-98/api-sub002/internal/domain"
	"github.com/NextWave-98/api-sub002/internal/domain/entity"
	"github.com/NextWave-98/api-sub002/internal/domain/repository"
)

// ReleaseLineForPDF línea de la liberación enriquecida con datos del producto.
type ReleaseLineForPDF struct {
	Item        entity.StockReleaseItem
	ProductSKU  string
	ProductName string
}

// ReleaseNotePDFGenerator genera el acta de salida de bodega de una liberación.
type ReleaseNotePDFGenerator interface {
	GenerateReleaseNotePDF(
		ctx context.Context,
		release *entity.StockRelease,
		from, to *entity.Location,
		lines []ReleaseLineForPDF,
	) ([]byte, error)
}

// PDFUseCase genera el acta de salida (PDF) de una liberación de stock.
// Solo se permite cuando la liberación ya salió de bodega (RELEASED o posterior).
type PDFUseCase struct {
	releaseRepo  repository.StockReleaseRepository
	locationRepo repository.LocationRepository
	productRepo  repository.ProductRepository
	generator    ReleaseNotePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando sus dependencias.
func NewPDFUseCase(
	releaseRepo repository.StockReleaseRepository,
	locationRepo repository.LocationRepository,
	productRepo repository.ProductRepository,
	generator ReleaseNotePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		releaseRepo:  releaseRepo,
		locationRepo: locationRepo,
		productRepo:  productRepo,
		generator:    generator,
	}
}

// DownloadReleaseNotePDF recupera la liberación con sus líneas, verifica que ya
// salió de bodega y genera el acta en PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)   si todo sale bien.
//   - domain.ErrReleaseNotFound   si la liberación no existe.
//   - domain.ErrInvalidInput      si aún no sale de bodega (PENDING/APPROVED/CANCELLED).
func (uc *PDFUseCase) DownloadReleaseNotePDF(ctx context.Context, releaseID string) (pdfBytes []byte, filename string, err error) {
	rel, err := uc.releaseRepo.GetByID(ctx, releaseID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener liberación: %w", err)
	}
	if rel == nil {
		return nil, "", domain.ErrReleaseNotFound
	}

	switch rel.Status {
	case entity.ReleaseReleased, entity.ReleaseReceived, entity.ReleaseCompleted:
		// ya salió de bodega, el acta tiene cantidades liberadas
	default:
		return nil, "", fmt.Errorf("%w: la liberación está en estado %s, el acta se genera después de liberar",
			domain.ErrInvalidInput, rel.Status)
	}

	from, err := uc.locationRepo.GetByID(ctx, rel.FromLocationID)
	if err != nil || from == nil {
		return nil, "", fmt.Errorf("pdf: obtener ubicación origen: %w", err)
	}
	var to *entity.Location
	if rel.ToLocationID != "" {
		to, err = uc.locationRepo.GetByID(ctx, rel.ToLocationID)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: obtener ubicación destino: %w", err)
		}
	}

	lines := make([]ReleaseLineForPDF, 0, len(rel.Items))
	for _, item := range rel.Items {
		line := ReleaseLineForPDF{Item: *item, ProductName: "Producto " + item.ProductID}
		if product, pErr := uc.productRepo.GetByID(ctx, item.ProductID); pErr == nil && product != nil {
			line.ProductSKU = product.SKU
			line.ProductName = product.Name
		}
		lines = append(lines, line)
	}

	pdfBytes, err = uc.generator.GenerateReleaseNotePDF(ctx, rel, from, to, lines)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("liberacion_%s.pdf", rel.ReleaseNumber)
	return pdfBytes, filename, nil
}
