// guia печатает инструкции по документам и список обязательных документов.
//
// Примеры:
//
//	guia -categoria fornecedor_individual
//	guia -categoria grupo_formal -doc FGTS
//	guia -uploads 42 -doc "Regularidade Federal"   # файлы продавца в S3
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilkoid/produtor-chat/pkg/config"
	"github.com/ilkoid/produtor-chat/pkg/guide"
	"github.com/ilkoid/produtor-chat/pkg/s3storage"
	"github.com/ilkoid/produtor-chat/pkg/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	categoryFlag := flag.String("categoria", "fornecedor_individual", "categoria do produtor")
	docFlag := flag.String("doc", "", "nome do documento")
	uploadsFlag := flag.String("uploads", "", "user_id: listar arquivos enviados ao S3")
	configFlag := flag.String("config", "", "путь к config.yaml")
	flag.Parse()

	category, err := session.ParseCategory(*categoryFlag)
	if err != nil {
		return err
	}

	if *uploadsFlag != "" {
		return listUploads(*configFlag, *uploadsFlag, *docFlag)
	}

	if *docFlag == "" {
		fmt.Printf("Documentos obrigatórios — %s:\n", category.Label())
		for i, name := range guide.RequiredDocuments(category) {
			fmt.Printf("  %d. %s\n", i+1, name)
		}
		return nil
	}

	if !guide.Known(*docFlag) {
		return fmt.Errorf("documento desconhecido: %q", *docFlag)
	}
	g := guide.Resolve(*docFlag, category)
	if g.Empty() {
		fmt.Println("Sem instruções para este documento.")
		return nil
	}
	fmt.Println(g.Render())
	return nil
}

func listUploads(configFlag, userID, docName string) error {
	cfgPath := (&config.DefaultConfigPathFinder{ConfigFlag: configFlag}).FindConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if !cfg.S3.Enabled() {
		return fmt.Errorf("s3 is not configured in %s", cfgPath)
	}

	client, err := s3storage.New(cfg.S3)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	objects, err := client.ListDocuments(ctx, userID, docName)
	if err != nil {
		return err
	}
	if len(objects) == 0 {
		fmt.Println("Nenhum arquivo enviado.")
		return nil
	}
	for _, obj := range objects {
		fmt.Printf("%s  %8d  %s\n", obj.LastModified.Format("2006-01-02 15:04"), obj.Size, obj.Key)
	}
	return nil
}
