package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/xavierca1/ligue-prospecting/internal/entity"
	"github.com/xavierca1/ligue-prospecting/internal/infra/integration/places"
	"github.com/xavierca1/ligue-prospecting/internal/usecase"
)

func main() {
	category := flag.String("category", "padaria", "categoria de negócio")
	location := flag.String("location", "Campinas", "cidade ou região")
	pageToken := flag.String("page", "", "token da próxima página")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Aviso: arquivo .env não encontrado, usando variáveis de ambiente do sistema")
	}

	if os.Getenv("PLACES_API_KEY") == "" {
		log.Fatal("❌ PLACES_API_KEY deve estar configurado no .env")
	}

	client := places.NewClient(os.Getenv("PLACES_API_KEY"), os.Getenv("PLACES_BASE_URL"), os.Getenv("PLACES_LANGUAGE"), 30*time.Second, nil)
	criteria := entity.SearchCriteria{Category: *category, Location: *location}

	fmt.Println("🔄 Buscando no diretório...")
	fmt.Printf("   Consulta: %s\n\n", criteria.Query())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	page, err := client.Search(ctx, criteria.Query(), *pageToken)
	if err != nil {
		log.Fatalf("Erro ao buscar no diretório: %v", err)
	}

	for i, c := range page.Items {
		phone := usecase.NormalizePhone(c.Phone)
		if phone == "" {
			phone = "(sem telefone)"
		}
		fmt.Printf("%2d. %s\n    %s\n    %s\n", i+1, c.Name, c.Address, phone)
	}

	fmt.Printf("\n%d candidatos nesta página\n", len(page.Items))
	if page.NextPageToken != "" {
		fmt.Printf("Próxima página: -page %s\n", page.NextPageToken)
	}
}
