package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/acavalcante04/erp-security/internal/dto"
	"github.com/acavalcante04/erp-security/internal/infra"
	"github.com/acavalcante04/erp-security/internal/model"
	"github.com/acavalcante04/erp-security/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repositories. Reads return copies so a service only changes stored
// state through an explicit write, the same as with a real transaction.

// ── Técnicos ─────────────────────────────────────────────────────────────────

type stubTecnicos struct {
	perfis map[uuid.UUID]bool // id → is technician
}

func newStubTecnicos() *stubTecnicos { return &stubTecnicos{perfis: map[uuid.UUID]bool{}} }

func (s *stubTecnicos) add(tecnico bool) uuid.UUID {
	id := uuid.New()
	s.perfis[id] = tecnico
	return id
}

func (s *stubTecnicos) EhTecnico(_ context.Context, id uuid.UUID) (bool, error) {
	ok, exists := s.perfis[id]
	if !exists {
		return false, referencia("usuário %s não encontrado", id)
	}
	return ok, nil
}

var _ VerificadorTecnico = (*stubTecnicos)(nil)

// ── Produtos ─────────────────────────────────────────────────────────────────

type stubProdutoRepo struct {
	produtos map[uuid.UUID]model.Produto
}

func newStubProdutoRepo() *stubProdutoRepo {
	return &stubProdutoRepo{produtos: map[uuid.UUID]model.Produto{}}
}

func (r *stubProdutoRepo) seed(nome, tipo string, preco string, garantia int) model.Produto {
	p := model.Produto{
		ID:            uuid.New(),
		Nome:          nome,
		Tipo:          tipo,
		PrecoVenda:    decimal.RequireFromString(preco),
		GarantiaMeses: garantia,
		EstoqueMinimo: 5,
		Ativo:         true,
		CreatedAt:     time.Now(),
	}
	r.produtos[p.ID] = p
	return p
}

func (r *stubProdutoRepo) Create(_ context.Context, p *model.Produto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.produtos[p.ID] = *p
	return nil
}

func (r *stubProdutoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Produto, error) {
	p, ok := r.produtos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *stubProdutoRepo) List(_ context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error) {
	var out []model.Produto
	for _, p := range r.produtos {
		if filter.Tipo != "" && p.Tipo != filter.Tipo {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out, int64(len(out)), nil
}

func (r *stubProdutoRepo) Update(_ context.Context, p *model.Produto) error {
	r.produtos[p.ID] = *p
	return nil
}

func (r *stubProdutoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p := r.produtos[id]
	p.Ativo = false
	r.produtos[id] = p
	return nil
}

func (r *stubProdutoRepo) Reativar(_ context.Context, id uuid.UUID) error {
	p := r.produtos[id]
	p.Ativo = true
	r.produtos[id] = p
	return nil
}

var _ repository.ProdutoRepository = (*stubProdutoRepo)(nil)

// ── Categorias ───────────────────────────────────────────────────────────────

type stubCategoriaRepo struct {
	categorias map[uuid.UUID]model.Categoria
}

func newStubCategoriaRepo() *stubCategoriaRepo {
	return &stubCategoriaRepo{categorias: map[uuid.UUID]model.Categoria{}}
}

func (r *stubCategoriaRepo) Criar(_ context.Context, c *model.Categoria) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.categorias[c.ID] = *c
	return nil
}

func (r *stubCategoriaRepo) Listar(_ context.Context) ([]model.Categoria, error) {
	var out []model.Categoria
	for _, c := range r.categorias {
		out = append(out, c)
	}
	return out, nil
}

func (r *stubCategoriaRepo) ObterPorID(_ context.Context, id uuid.UUID) (*model.Categoria, error) {
	c, ok := r.categorias[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *stubCategoriaRepo) ObterPorNome(_ context.Context, nome string) (*model.Categoria, error) {
	for _, c := range r.categorias {
		if strings.EqualFold(c.Nome, nome) {
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCategoriaRepo) Atualizar(_ context.Context, c *model.Categoria) error {
	r.categorias[c.ID] = *c
	return nil
}

func (r *stubCategoriaRepo) Desativar(_ context.Context, id uuid.UUID) error {
	c := r.categorias[id]
	c.Ativo = false
	r.categorias[id] = c
	return nil
}

var _ repository.CategoriaRepository = (*stubCategoriaRepo)(nil)

// ── Clientes ─────────────────────────────────────────────────────────────────

type stubClienteRepo struct {
	clientes map[uuid.UUID]model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: map[uuid.UUID]model.Cliente{}}
}

func (r *stubClienteRepo) seed(nome string, email *string) model.Cliente {
	c := model.Cliente{
		ID:       uuid.New(),
		Tipo:     model.PessoaFisica,
		Nome:     nome,
		CPFCNPJ:  "52998224725",
		Telefone: "(71) 99999-0000",
		Email:    email,
	}
	r.clientes[c.ID] = c
	return c
}

func (r *stubClienteRepo) Create(_ context.Context, _ *gorm.DB, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for i := range c.Enderecos {
		c.Enderecos[i].ID = uuid.New()
		c.Enderecos[i].ClienteID = c.ID
	}
	for i := range c.ContatosSecundarios {
		c.ContatosSecundarios[i].ID = uuid.New()
		c.ContatosSecundarios[i].ClienteID = c.ID
	}
	r.clientes[c.ID] = *c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *stubClienteRepo) FindByDocumento(_ context.Context, doc string) (*model.Cliente, error) {
	for _, c := range r.clientes {
		if c.CPFCNPJ == doc {
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubClienteRepo) List(_ context.Context, filter dto.ClienteFilter) ([]model.Cliente, int64, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		if filter.Busca == "" || strings.Contains(strings.ToLower(c.Nome), strings.ToLower(filter.Busca)) {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubClienteRepo) Update(_ context.Context, _ *gorm.DB, c *model.Cliente) error {
	stored := *c
	prev := r.clientes[c.ID]
	stored.Enderecos, stored.ContatosSecundarios = prev.Enderecos, prev.ContatosSecundarios
	r.clientes[c.ID] = stored
	return nil
}

func (r *stubClienteRepo) ReplaceEnderecos(_ context.Context, _ *gorm.DB, id uuid.UUID, enderecos []model.Endereco) error {
	c := r.clientes[id]
	c.Enderecos = append([]model.Endereco(nil), enderecos...)
	r.clientes[id] = c
	return nil
}

func (r *stubClienteRepo) ReplaceContatos(_ context.Context, _ *gorm.DB, id uuid.UUID, contatos []model.ContatoSecundario) error {
	c := r.clientes[id]
	c.ContatosSecundarios = append([]model.ContatoSecundario(nil), contatos...)
	r.clientes[id] = c
	return nil
}

func (r *stubClienteRepo) DB() *gorm.DB { return nil }

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// ── Orçamentos ───────────────────────────────────────────────────────────────

type stubOrcamentoRepo struct {
	orcamentos map[uuid.UUID]model.Orcamento
	itens      map[uuid.UUID]model.ItemOrcamento
	ordemItens []uuid.UUID // insertion order
	seq        int64
	produtos   *stubProdutoRepo
	clientes   *stubClienteRepo

	failUpdate error
}

func newStubOrcamentoRepo(produtos *stubProdutoRepo, clientes *stubClienteRepo) *stubOrcamentoRepo {
	return &stubOrcamentoRepo{
		orcamentos: map[uuid.UUID]model.Orcamento{},
		itens:      map[uuid.UUID]model.ItemOrcamento{},
		produtos:   produtos,
		clientes:   clientes,
	}
}

// seed stores a quote in the given status with consistent totals.
func (r *stubOrcamentoRepo) seed(clienteID uuid.UUID, status string, itens ...model.ItemOrcamento) model.Orcamento {
	r.seq++
	o := model.Orcamento{
		ID:          uuid.New(),
		Numero:      r.seq,
		ClienteID:   clienteID,
		Validade:    time.Now().AddDate(0, 0, 15),
		Status:      status,
		Desconto:    decimal.Zero,
		Observacoes: "Pagamento 50% na aprovação",
		CreatedAt:   time.Now(),
	}
	for _, it := range itens {
		it.ID = uuid.New()
		it.OrcamentoID = o.ID
		it.Subtotal = CalcularSubtotal(it.Quantidade, it.PrecoUnitario)
		r.itens[it.ID] = it
		r.ordemItens = append(r.ordemItens, it.ID)
		o.ValorBruto = o.ValorBruto.Add(it.Subtotal)
	}
	o.ValorTotal = CalcularTotal(o.ValorBruto, o.Desconto)
	r.orcamentos[o.ID] = o
	return o
}

func (r *stubOrcamentoRepo) Create(_ context.Context, _ *gorm.DB, o *model.Orcamento) error {
	r.seq++
	o.ID = uuid.New()
	o.Numero = r.seq
	o.CreatedAt = time.Now()
	for i := range o.Itens {
		o.Itens[i].ID = uuid.New()
		o.Itens[i].OrcamentoID = o.ID
		r.itens[o.Itens[i].ID] = o.Itens[i]
		r.ordemItens = append(r.ordemItens, o.Itens[i].ID)
	}
	stored := *o
	stored.Itens = nil
	r.orcamentos[o.ID] = stored
	return nil
}

func (r *stubOrcamentoRepo) montar(o model.Orcamento) *model.Orcamento {
	o.Itens = nil
	for _, id := range r.ordemItens {
		it, ok := r.itens[id]
		if !ok || it.OrcamentoID != o.ID {
			continue
		}
		if p, ok := r.produtos.produtos[it.ProdutoID]; ok {
			it.Produto = &p
		}
		o.Itens = append(o.Itens, it)
	}
	if c, ok := r.clientes.clientes[o.ClienteID]; ok {
		o.Cliente = &c
	}
	return &o
}

func (r *stubOrcamentoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Orcamento, error) {
	o, ok := r.orcamentos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.montar(o), nil
}

func (r *stubOrcamentoRepo) FindByIDForUpdate(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Orcamento, error) {
	o, ok := r.orcamentos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &o, nil
}

func (r *stubOrcamentoRepo) List(_ context.Context, filter dto.OrcamentoFilter) ([]model.Orcamento, int64, error) {
	var out []model.Orcamento
	for _, o := range r.orcamentos {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, *r.montar(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Numero > out[j].Numero })
	return out, int64(len(out)), nil
}

func (r *stubOrcamentoRepo) Update(_ context.Context, _ *gorm.DB, o *model.Orcamento) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	stored := *o
	stored.Itens, stored.Cliente = nil, nil
	r.orcamentos[o.ID] = stored
	return nil
}

func (r *stubOrcamentoRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.orcamentos, id)
	for itemID, it := range r.itens {
		if it.OrcamentoID == id {
			delete(r.itens, itemID)
		}
	}
	return nil
}

func (r *stubOrcamentoRepo) CreateItem(_ context.Context, _ *gorm.DB, it *model.ItemOrcamento) error {
	it.ID = uuid.New()
	r.itens[it.ID] = *it
	r.ordemItens = append(r.ordemItens, it.ID)
	return nil
}

func (r *stubOrcamentoRepo) FindItem(_ context.Context, _ *gorm.DB, orcamentoID, itemID uuid.UUID) (*model.ItemOrcamento, error) {
	it, ok := r.itens[itemID]
	if !ok || it.OrcamentoID != orcamentoID {
		return nil, gorm.ErrRecordNotFound
	}
	return &it, nil
}

func (r *stubOrcamentoRepo) UpdateItem(_ context.Context, _ *gorm.DB, it *model.ItemOrcamento) error {
	r.itens[it.ID] = *it
	return nil
}

func (r *stubOrcamentoRepo) DeleteItem(_ context.Context, _ *gorm.DB, itemID uuid.UUID) error {
	delete(r.itens, itemID)
	return nil
}

func (r *stubOrcamentoRepo) SumSubtotais(_ context.Context, _ *gorm.DB, orcamentoID uuid.UUID) (decimal.Decimal, error) {
	soma := decimal.Zero
	for _, it := range r.itens {
		if it.OrcamentoID == orcamentoID {
			soma = soma.Add(it.Subtotal)
		}
	}
	return soma, nil
}

func (r *stubOrcamentoRepo) DB() *gorm.DB { return nil }

var _ repository.OrcamentoRepository = (*stubOrcamentoRepo)(nil)

// ── Ordens de serviço ────────────────────────────────────────────────────────

type stubOrdemRepo struct {
	ordens     map[uuid.UUID]model.OrdemServico
	seq        int64
	orcamentos *stubOrcamentoRepo

	failCreate error
}

func newStubOrdemRepo(orcamentos *stubOrcamentoRepo) *stubOrdemRepo {
	return &stubOrdemRepo{ordens: map[uuid.UUID]model.OrdemServico{}, orcamentos: orcamentos}
}

func (r *stubOrdemRepo) Create(_ context.Context, _ *gorm.DB, os *model.OrdemServico) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	r.seq++
	os.ID = uuid.New()
	os.Numero = r.seq
	os.DataAbertura = time.Now()
	r.ordens[os.ID] = *os
	return nil
}

func (r *stubOrdemRepo) FindByID(_ context.Context, id uuid.UUID) (*model.OrdemServico, error) {
	os, ok := r.ordens[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if os.OrcamentoOrigemID != nil && r.orcamentos != nil {
		if o, err := r.orcamentos.FindByID(context.Background(), *os.OrcamentoOrigemID); err == nil {
			os.OrcamentoOrigem = o
		}
	}
	if r.orcamentos != nil {
		if c, ok := r.orcamentos.clientes.clientes[os.ClienteID]; ok {
			os.Cliente = &c
		}
	}
	return &os, nil
}

func (r *stubOrdemRepo) FindByIDForUpdate(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.OrdemServico, error) {
	os, ok := r.ordens[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &os, nil
}

func (r *stubOrdemRepo) ExistsByOrcamentoOrigem(_ context.Context, _ *gorm.DB, orcamentoID uuid.UUID) (bool, error) {
	for _, os := range r.ordens {
		if os.OrcamentoOrigemID != nil && *os.OrcamentoOrigemID == orcamentoID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubOrdemRepo) List(_ context.Context, filter dto.OrdemServicoFilter) ([]model.OrdemServico, int64, error) {
	out, _ := r.ListAll(context.Background(), filter)
	return out, int64(len(out)), nil
}

func (r *stubOrdemRepo) ListAll(_ context.Context, filter dto.OrdemServicoFilter) ([]model.OrdemServico, error) {
	var out []model.OrdemServico
	for _, os := range r.ordens {
		if filter.Status != "" && os.Status != filter.Status {
			continue
		}
		out = append(out, os)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Numero < out[j].Numero })
	return out, nil
}

func (r *stubOrdemRepo) Update(_ context.Context, _ *gorm.DB, os *model.OrdemServico) error {
	stored := *os
	stored.Cliente, stored.Tecnico, stored.OrcamentoOrigem = nil, nil, nil
	r.ordens[os.ID] = stored
	return nil
}

func (r *stubOrdemRepo) DB() *gorm.DB { return nil }

var _ repository.OrdemServicoRepository = (*stubOrdemRepo)(nil)

// ── Configuração ─────────────────────────────────────────────────────────────

type stubConfigRepo struct {
	atual *model.ConfiguracaoEmpresa
}

func (r *stubConfigRepo) Get(_ context.Context) (*model.ConfiguracaoEmpresa, error) {
	if r.atual == nil {
		return nil, gorm.ErrRecordNotFound
	}
	c := *r.atual
	return &c, nil
}

func (r *stubConfigRepo) Save(_ context.Context, c *model.ConfiguracaoEmpresa) error {
	if r.atual != nil {
		c.ID = r.atual.ID
	} else {
		c.ID = uuid.New()
	}
	stored := *c
	r.atual = &stored
	return nil
}

var _ repository.ConfiguracaoRepository = (*stubConfigRepo)(nil)

// ── Fila de email ────────────────────────────────────────────────────────────

type stubFila struct {
	enviados []infra.Email
}

func (f *stubFila) EnqueueEmail(_ context.Context, msg infra.Email) error {
	f.enviados = append(f.enviados, msg)
	return nil
}

var _ FilaEmail = (*stubFila)(nil)

// ── Fixture ──────────────────────────────────────────────────────────────────

type fixture struct {
	produtos   *stubProdutoRepo
	clientes   *stubClienteRepo
	orcamentos *stubOrcamentoRepo
	ordens     *stubOrdemRepo
	tecnicos   *stubTecnicos
	config     *stubConfigRepo
	fila       *stubFila
}

func newFixture() *fixture {
	f := &fixture{
		produtos: newStubProdutoRepo(),
		clientes: newStubClienteRepo(),
		tecnicos: newStubTecnicos(),
		config:   &stubConfigRepo{},
		fila:     &stubFila{},
	}
	f.orcamentos = newStubOrcamentoRepo(f.produtos, f.clientes)
	f.ordens = newStubOrdemRepo(f.orcamentos)
	return f
}

func (f *fixture) documentos() DocumentoService {
	return NewDocumentoService(f.orcamentos, f.ordens, NewConfiguracaoService(f.config, "Empresa Teste"))
}

func (f *fixture) orcamentoSvc() OrcamentoService {
	return NewOrcamentoService(f.orcamentos, f.produtos, f.clientes, nil, nil)
}

func (f *fixture) conversaoSvc() ConversaoService {
	return NewConversaoService(f.orcamentos, f.ordens, f.tecnicos)
}

func (f *fixture) ordemSvc(agora time.Time) OrdemServicoService {
	return &ordemServicoService{
		repo:     f.ordens,
		clientes: f.clientes,
		tecnicos: f.tecnicos,
		agora:    func() time.Time { return agora },
	}
}

func item(p model.Produto, qtd int) model.ItemOrcamento {
	return model.ItemOrcamento{ProdutoID: p.ID, Quantidade: qtd, PrecoUnitario: p.PrecoVenda}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
