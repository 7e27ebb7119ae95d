package warehouse

import "fmt"

// managementReportSQL is the analytical query behind /v1/shopify/gestao.
//
// kpis.sessoes comes from the funnel view (shopify_funnel_daily_final_v) so
// the headline conversion rate matches the journey chart; channels come from
// shopify_channels_daily_dashboard_v, which includes the "Não mapeado"
// bucket. The query always returns exactly one aggregate row.
const managementReportSQL = `
WITH date_spine AS (
  SELECT d AS data
  FROM UNNEST(GENERATE_DATE_ARRAY(@start_date, @end_date)) AS d
),

funnel AS (
  SELECT
    data,
    CAST(visitantes AS INT64) AS visitantes,
    CAST(sessoes AS INT64) AS sessoes,
    CAST(sessoes_com_carrinho AS INT64) AS sessoes_com_carrinho,
    CAST(sessoes_chegaram_checkout AS INT64) AS sessoes_chegaram_checkout,
    CAST(COALESCE(pedidos_aprovados_validos, 0) AS INT64) AS pedidos_aprovados_validos,
    CAST(COALESCE(taxa_conversao, 0) AS FLOAT64) AS taxa_conversao,
    CAST(COALESCE(taxa_conv_checkout, 0) AS FLOAT64) AS taxa_conv_checkout
  FROM ` + "`%[1]s.%[2]s.shopify_funnel_daily_final_v`" + `
  WHERE data BETWEEN @start_date AND @end_date
),

kpis AS (
  SELECT
    SUM(IFNULL(CAST(r.receita_total AS FLOAT64), 0)) AS vendas,
    SUM(IFNULL(CAST(r.pedidos_aprovados AS INT64), 0)) AS pedidos,
    SUM(IFNULL(CAST(r.pedidos_novos_por_pedido AS INT64), 0)) AS pedidos_novos,
    SUM(IFNULL(CAST(r.pedidos_recorrentes_por_pedido AS INT64), 0)) AS pedidos_recorrentes,
    SUM(IFNULL(CAST(f.sessoes AS INT64), 0)) AS sessoes,

    SAFE_DIVIDE(
      SUM(IFNULL(CAST(r.pedidos_aprovados AS INT64), 0)),
      NULLIF(SUM(IFNULL(CAST(f.sessoes AS INT64), 0)), 0)
    ) AS taxa_conversao,

    SAFE_DIVIDE(
      SUM(IFNULL(CAST(r.receita_total AS FLOAT64), 0)),
      NULLIF(SUM(IFNULL(CAST(r.pedidos_aprovados AS INT64), 0)), 0)
    ) AS aov
  FROM date_spine d
  LEFT JOIN ` + "`%[1]s.%[2]s.ssot_revenue_daily`" + ` r USING (data)
  LEFT JOIN funnel f USING (data)
),

channels_period AS (
  SELECT
    canal,
    tipo,
    SUM(CAST(sessoes AS INT64)) AS sessoes,
    SUM(CAST(vendas AS FLOAT64)) AS vendas,
    SUM(CAST(pedidos AS INT64)) AS pedidos,
    SAFE_DIVIDE(SUM(CAST(pedidos AS INT64)), NULLIF(SUM(CAST(sessoes AS INT64)), 0)) AS taxa_conversao,
    SAFE_DIVIDE(SUM(CAST(vendas AS FLOAT64)), NULLIF(SUM(CAST(pedidos AS INT64)), 0)) AS aov,
    SUM(CAST(pedidos_novos_clientes AS INT64)) AS pedidos_novos_clientes,
    SUM(CAST(pedidos_clientes_recorrentes AS INT64)) AS pedidos_clientes_recorrentes
  FROM ` + "`%[1]s.%[2]s.shopify_channels_daily_dashboard_v`" + `
  WHERE data BETWEEN @start_date AND @end_date
  GROUP BY canal, tipo
)

SELECT
  FORMAT_DATE('%%F', @start_date) AS start,
  FORMAT_DATE('%%F', @end_date) AS end_date,
  'America/Sao_Paulo' AS timezone,

  (SELECT AS STRUCT * FROM kpis) AS kpis,

  (SELECT ARRAY_AGG(STRUCT(
      FORMAT_DATE('%%F', data) AS data,
      visitantes,
      sessoes,
      sessoes_com_carrinho,
      sessoes_chegaram_checkout,
      pedidos_aprovados_validos,
      taxa_conversao,
      taxa_conv_checkout
    ) ORDER BY data
  ) FROM funnel) AS funnel_daily,

  (SELECT ARRAY_AGG(STRUCT(
      canal,
      tipo,
      sessoes,
      vendas,
      pedidos,
      taxa_conversao,
      aov,
      pedidos_novos_clientes,
      pedidos_clientes_recorrentes
    ) ORDER BY vendas DESC
  ) FROM channels_period) AS channels
;`

// renderManagementReportSQL binds the project and dataset identifiers into
// the template. Dates stay as named query parameters, never interpolated.
func renderManagementReportSQL(project, dataset string) string {
	return fmt.Sprintf(managementReportSQL, project, dataset)
}
