package review_test

const threeCardPage = `<!DOCTYPE html>
<html><head><title>Producto</title><script>var x = "star rating";</script></head>
<body>
  <header><div class="summary-rating" aria-label="4.6 de 5">4.6</div></header>
  <section class="reviews">
    <article class="review-card">
      <div class="rating" aria-label="Calificación 5 de 5">
        <span class="star filled"></span><span class="star filled"></span><span class="star filled"></span>
        <span class="star filled"></span><span class="star filled"></span>
      </div>
      <h3 class="review-title">Excelente</h3>
      <p class="review-content">Muy buen producto, llegó rápido y funciona perfecto.</p>
      <span class="review-author">Ana</span>
      <time datetime="2024-01-10"></time>
    </article>
    <article class="review-card">
      <div class="rating">
        <span class="star filled"></span><span class="star filled"></span><span class="star filled"></span>
        <span class="star filled"></span><span class="star"></span>
      </div>
      <h3 class="review-title">Bueno</h3>
      <p class="review-content">Cumple con lo prometido aunque la batería dura poco.</p>
      <span class="review-date">12 feb 2024</span>
    </article>
    <article class="review-card">
      <div class="rating">
        <span class="star"></span><span class="star"></span><span class="star"></span>
        <span class="star"></span><span class="star"></span>
      </div>
      <p class="review-content">No estoy seguro de la calidad, tiene detalles menores.</p>
    </article>
  </section>
</body></html>`

const articlesOnlyPage = `<html><body>
  <article><p>First review body with enough words to count as a card.</p>
    <article><p>Nested reply that must not become its own card.</p></article>
  </article>
  <article><p>Second review body, also long enough to be kept.</p></article>
  <article><p>short</p></article>
</body></html>`

const classOnlyPage = `<html><body>
  <div class="review-item">Great value for the money, would buy again.</div>
  <div class="review-item">Stopped working after two weeks of light use.</div>
</body></html>`

const amazonCard = `<html><body>
<div data-hook="review" class="a-section review aok-relative">
  <div class="a-row">
    <a class="a-link-normal" title="4.0 out of 5 stars" href="#">
      <i data-hook="review-star-rating" class="a-icon a-icon-star a-star-4 review-rating">
        <span class="a-icon-alt">4.0 out of 5 stars</span>
      </i>
    </a>
    <a data-hook="review-title" class="review-title-content"><span>Solid kettle</span></a>
  </div>
  <span class="a-profile-name">J. Doe</span>
  <span data-hook="review-date" class="review-date">Reviewed on March 3, 2024</span>
  <span data-hook="review-body" class="a-size-base review-text review-text-content">
    <span>Boils fast and the handle stays cool. Lid hinge feels a little flimsy.</span>
  </span>
</div>
</body></html>`

// shortCardsPage carries three short reviews: ratings 5, 4 and indeterminate.
const shortCardsPage = `<html><body>
  <section class="reviews">
    <article class="review-card">
      <div class="rating" aria-label="5 de 5"></div>
      <p class="review-content">Great product</p>
    </article>
    <article class="review-card">
      <div class="rating">
        <span class="star filled"></span><span class="star filled"></span><span class="star filled"></span>
        <span class="star filled"></span><span class="star"></span>
      </div>
      <p class="review-content">Decent, had issues</p>
    </article>
    <article class="review-card">
      <div class="rating">
        <span class="star"></span><span class="star"></span><span class="star"></span>
        <span class="star"></span><span class="star"></span>
      </div>
      <p class="review-content">Great product duplicate text</p>
    </article>
  </section>
</body></html>`

const productBadgePage = `<html><body>
<div class="product-content">
  <div class="summary-card"><span class="rating" aria-label="4.6 de 5">4.6</span></div>
  <p>Licuadora de 600W con vaso de vidrio y cuchillas de acero inoxidable.</p>
</div>
</body></html>`
